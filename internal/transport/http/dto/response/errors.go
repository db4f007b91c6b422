package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrGalleryNotFound = ErrorResponse{
		Status:  "error",
		Error:   "gallery_not_found",
		Details: "Gallery does not exist",
	}

	ErrItemNotFound = ErrorResponse{
		Status:  "error",
		Error:   "gallery_item_not_found",
		Details: "Gallery item does not exist",
	}

	ErrRenderFailed = ErrorResponse{
		Status:  "error",
		Error:   "render_failed",
		Details: "Could not render gallery page",
	}
)
