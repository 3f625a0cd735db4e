// Package ports defines the contracts between the encoders and their collaborators.
package ports

// Driver abstracts a hardware video acceleration driver.
// Every failing call returns an error, normally a Status. Implementations are
// not required to be safe for concurrent use; the encoders serialize access.
type Driver interface {
	// GetDisplay acquires a display handle.
	GetDisplay() (Display, error)

	// Initialize prepares the display and reports the API version.
	Initialize(dpy Display) (major, minor int, err error)

	// Terminate releases the display and everything created on it.
	Terminate(dpy Display) error

	// QueryVendorString returns the driver vendor/version string.
	QueryVendorString(dpy Display) (string, error)

	// QueryConfigEntrypoints lists the entry points available for a profile.
	QueryConfigEntrypoints(dpy Display, profile Profile) ([]Entrypoint, error)

	// GetConfigAttributes fills in the supported value of each requested attribute.
	GetConfigAttributes(dpy Display, profile Profile, entrypoint Entrypoint, attribs []ConfigAttrib) error

	CreateConfig(dpy Display, profile Profile, entrypoint Entrypoint, attribs []ConfigAttrib) (ConfigID, error)
	DestroyConfig(dpy Display, config ConfigID) error

	// CreateSurface creates one surface. With External attributes the caller's
	// memory is wrapped without copying and must stay valid until DestroySurface.
	CreateSurface(dpy Display, format RTFormat, width, height int, attribs *SurfaceAttributes) (SurfaceID, error)
	DestroySurface(dpy Display, surface SurfaceID) error

	// SyncSurface blocks until all pending work on the surface has completed.
	SyncSurface(dpy Display, surface SurfaceID) error

	CreateContext(dpy Display, config ConfigID, width, height int, flags int, targets []SurfaceID) (ContextID, error)
	DestroyContext(dpy Display, ctx ContextID) error

	// CreateBuffer creates a buffer of the given type. data is one of the
	// parameter structs of this package, or nil for an empty buffer.
	CreateBuffer(dpy Display, ctx ContextID, typ BufferType, size int, data any) (BufferID, error)

	// MapBuffer maps a buffer. Coded buffers map to *CodedSegment, parameter
	// buffers to a pointer to their parameter struct.
	MapBuffer(dpy Display, buf BufferID) (any, error)
	UnmapBuffer(dpy Display, buf BufferID) error
	DestroyBuffer(dpy Display, buf BufferID) error

	BeginPicture(dpy Display, ctx ContextID, target SurfaceID) error
	RenderPicture(dpy Display, ctx ContextID, bufs ...BufferID) error
	EndPicture(dpy Display, ctx ContextID) error
}
