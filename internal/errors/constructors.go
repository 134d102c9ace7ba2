package errors

// Convenience functions for common error patterns

// Invocation errors

func UsageError(message string) *YFileError {
	return New(CategoryUsage, SeverityFatal, message)
}

// File errors

func InputOpenFailed(path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not open input filename").
		WithContext("path", path)
}

func OutputOpenFailed(path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not open output filename").
		WithContext("path", path)
}

func InputReadFailed(path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not read input filename").
		WithContext("path", path)
}

func OutputWriteFailed(path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not write output filename").
		WithContext("path", path)
}

func ReferenceOpenFailed(reference, path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not open a referenced file").
		WithContext("reference", reference).
		WithContext("path", path)
}

func ReportWriteFailed(path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not write report file").
		WithContext("path", path)
}

func MetricsWriteFailed(path string, cause error) *YFileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "could not write metrics file").
		WithContext("path", path)
}

// Reference errors

func UnresolvableReference(reference, reason string) *YFileError {
	return New(CategoryValidation, SeverityFatal, "could not resolve a referenced file").
		WithContext("reference", reference).
		WithContext("reason", reason)
}

// Network errors

func FetchFailed(url string, cause error) *YFileError {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "could not fetch a referenced URL").
		WithContext("url", url)
}

// Internal errors

func InternalError(message string, cause error) *YFileError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
