package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration could not be parsed").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content and navigation errors

func ContentError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content document invalid").
		WithContext("path", path)
}

func MissingDocuments(sidebar string, ids []string) *SiteError {
	return New(CategoryNavigation, SeverityFatal, "sidebar references missing documents").
		WithContext("sidebar", sidebar).
		WithContext("ids", ids)
}

func BrokenLinks(count int) *SiteError {
	return New(CategoryLinks, SeverityFatal, "broken internal links found").
		WithContext("count", count)
}

// Build pipeline errors

func RenderFailed(page string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page rendering failed").
		WithContext("page", page)
}

func OutputError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
