/*
Package session coordinates concurrent access to session rosters.

The Manager serializes writers per session (locally, and across replicas when
a distributed locker is configured) and keeps a generation counter per session.
Every change to a roster bumps its generation, which lets callers detect that a
blueprint computed earlier no longer reflects the roster.
*/
package session
