package objectstore

// Rebind exposes the placeholder rewriting of the named store driver for testing.
func Rebind(driver, query string) string { return dialects[driver].rebind(query) }
