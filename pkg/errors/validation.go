package errors

import "regexp"

var (
	toolchainHashPattern = regexp.MustCompile(`^[a-f0-9]{40}$`)
	sha256Pattern        = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// ValidateToolchainHash checks that h is a 40-character lowercase hex
// rustc commit hash, the form embedded in /rustc/<hash>/ debug paths.
func ValidateToolchainHash(h string) error {
	if h == "" {
		return New(ErrCodeInvalidHash, "toolchain hash cannot be empty")
	}
	if !toolchainHashPattern.MatchString(h) {
		return New(ErrCodeInvalidHash, "invalid toolchain hash %q (want 40 lowercase hex characters)", h)
	}
	return nil
}

// ValidateSHA256 checks that s is a lowercase hex SHA-256 digest as used to
// key stored reports.
func ValidateSHA256(s string) error {
	if !sha256Pattern.MatchString(s) {
		return New(ErrCodeInvalidHash, "invalid sha256 digest %q", s)
	}
	return nil
}
