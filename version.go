package cortex

// Version is the release of the cortex module, overridable at link time
// with -ldflags "-X github.com/aretw0/cortex.Version=...".
var Version = "0.3.0"
