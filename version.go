package rangecov

import "github.com/blang/semver"

// Version is the rangecov release.
var Version = semver.MustParse("0.3.1")
