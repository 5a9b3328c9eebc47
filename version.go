package blueprint

// Version is the release of this module. Overridden at build time with
// -ldflags "-X github.com/aretw0/blueprint.Version=...".
var Version = "0.4.0"
