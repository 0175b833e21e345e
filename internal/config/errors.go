package config

const (
	// Storage errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"
	ErrInitializeStorage     = "Failed to initialize post storage"

	// Notifications shown by the client
	MsgPostAdded   = "Your post has been added successfully"
	MsgPostUpdated = "Your post has been updated successfully"
	MsgPostDeleted = "The post has been deleted successfully"

	ErrAddPostFmt    = "Could not add the post: %v"
	ErrUpdatePostFmt = "Could not update the post: %v"
	ErrDeletePostFmt = "Could not delete the post: %v"
	ErrFetchPostsFmt = "Could not load posts: %v"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"
)
