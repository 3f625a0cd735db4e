// Package mocks provides mock implementations for testing.
package mocks

import (
	"sync"

	"github.com/user/vaencoder/pkg/ports"
)

// Driver is a mock implementation of ports.Driver.
//
// Every call is recorded by name. A call whose XxxFunc is set is answered by
// that func; otherwise it is forwarded to Next, or succeeds with zero values
// when Next is nil.
type Driver struct {
	Next ports.Driver

	GetDisplayFunc             func() (ports.Display, error)
	InitializeFunc             func(dpy ports.Display) (int, int, error)
	TerminateFunc              func(dpy ports.Display) error
	QueryVendorStringFunc      func(dpy ports.Display) (string, error)
	QueryConfigEntrypointsFunc func(dpy ports.Display, profile ports.Profile) ([]ports.Entrypoint, error)
	GetConfigAttributesFunc    func(dpy ports.Display, profile ports.Profile, ep ports.Entrypoint, attribs []ports.ConfigAttrib) error
	CreateConfigFunc           func(dpy ports.Display, profile ports.Profile, ep ports.Entrypoint, attribs []ports.ConfigAttrib) (ports.ConfigID, error)
	DestroyConfigFunc          func(dpy ports.Display, id ports.ConfigID) error
	CreateSurfaceFunc          func(dpy ports.Display, format ports.RTFormat, width, height int, attribs *ports.SurfaceAttributes) (ports.SurfaceID, error)
	DestroySurfaceFunc         func(dpy ports.Display, id ports.SurfaceID) error
	SyncSurfaceFunc            func(dpy ports.Display, id ports.SurfaceID) error
	CreateContextFunc          func(dpy ports.Display, cfg ports.ConfigID, width, height int, flags int, targets []ports.SurfaceID) (ports.ContextID, error)
	DestroyContextFunc         func(dpy ports.Display, id ports.ContextID) error
	CreateBufferFunc           func(dpy ports.Display, ctx ports.ContextID, typ ports.BufferType, size int, data any) (ports.BufferID, error)
	MapBufferFunc              func(dpy ports.Display, id ports.BufferID) (any, error)
	UnmapBufferFunc            func(dpy ports.Display, id ports.BufferID) error
	DestroyBufferFunc          func(dpy ports.Display, id ports.BufferID) error
	BeginPictureFunc           func(dpy ports.Display, ctx ports.ContextID, target ports.SurfaceID) error
	RenderPictureFunc          func(dpy ports.Display, ctx ports.ContextID, bufs ...ports.BufferID) error
	EndPictureFunc             func(dpy ports.Display, ctx ports.ContextID) error

	mu    sync.Mutex
	calls []string
}

// NewDriver creates a mock that forwards to next.
func NewDriver(next ports.Driver) *Driver {
	return &Driver{Next: next}
}

func (m *Driver) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the recorded call names in order.
func (m *Driver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times name was called.
func (m *Driver) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets the recorded calls.
func (m *Driver) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Driver) GetDisplay() (ports.Display, error) {
	m.record("GetDisplay")
	if m.GetDisplayFunc != nil {
		return m.GetDisplayFunc()
	}
	if m.Next != nil {
		return m.Next.GetDisplay()
	}
	return 1, nil
}

func (m *Driver) Initialize(dpy ports.Display) (int, int, error) {
	m.record("Initialize")
	if m.InitializeFunc != nil {
		return m.InitializeFunc(dpy)
	}
	if m.Next != nil {
		return m.Next.Initialize(dpy)
	}
	return 1, 0, nil
}

func (m *Driver) Terminate(dpy ports.Display) error {
	m.record("Terminate")
	if m.TerminateFunc != nil {
		return m.TerminateFunc(dpy)
	}
	if m.Next != nil {
		return m.Next.Terminate(dpy)
	}
	return nil
}

func (m *Driver) QueryVendorString(dpy ports.Display) (string, error) {
	m.record("QueryVendorString")
	if m.QueryVendorStringFunc != nil {
		return m.QueryVendorStringFunc(dpy)
	}
	if m.Next != nil {
		return m.Next.QueryVendorString(dpy)
	}
	return "mock", nil
}

func (m *Driver) QueryConfigEntrypoints(dpy ports.Display, profile ports.Profile) ([]ports.Entrypoint, error) {
	m.record("QueryConfigEntrypoints")
	if m.QueryConfigEntrypointsFunc != nil {
		return m.QueryConfigEntrypointsFunc(dpy, profile)
	}
	if m.Next != nil {
		return m.Next.QueryConfigEntrypoints(dpy, profile)
	}
	return nil, nil
}

func (m *Driver) GetConfigAttributes(dpy ports.Display, profile ports.Profile, ep ports.Entrypoint, attribs []ports.ConfigAttrib) error {
	m.record("GetConfigAttributes")
	if m.GetConfigAttributesFunc != nil {
		return m.GetConfigAttributesFunc(dpy, profile, ep, attribs)
	}
	if m.Next != nil {
		return m.Next.GetConfigAttributes(dpy, profile, ep, attribs)
	}
	return nil
}

func (m *Driver) CreateConfig(dpy ports.Display, profile ports.Profile, ep ports.Entrypoint, attribs []ports.ConfigAttrib) (ports.ConfigID, error) {
	m.record("CreateConfig")
	if m.CreateConfigFunc != nil {
		return m.CreateConfigFunc(dpy, profile, ep, attribs)
	}
	if m.Next != nil {
		return m.Next.CreateConfig(dpy, profile, ep, attribs)
	}
	return 1, nil
}

func (m *Driver) DestroyConfig(dpy ports.Display, id ports.ConfigID) error {
	m.record("DestroyConfig")
	if m.DestroyConfigFunc != nil {
		return m.DestroyConfigFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.DestroyConfig(dpy, id)
	}
	return nil
}

func (m *Driver) CreateSurface(dpy ports.Display, format ports.RTFormat, width, height int, attribs *ports.SurfaceAttributes) (ports.SurfaceID, error) {
	m.record("CreateSurface")
	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(dpy, format, width, height, attribs)
	}
	if m.Next != nil {
		return m.Next.CreateSurface(dpy, format, width, height, attribs)
	}
	return 1, nil
}

func (m *Driver) DestroySurface(dpy ports.Display, id ports.SurfaceID) error {
	m.record("DestroySurface")
	if m.DestroySurfaceFunc != nil {
		return m.DestroySurfaceFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.DestroySurface(dpy, id)
	}
	return nil
}

func (m *Driver) SyncSurface(dpy ports.Display, id ports.SurfaceID) error {
	m.record("SyncSurface")
	if m.SyncSurfaceFunc != nil {
		return m.SyncSurfaceFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.SyncSurface(dpy, id)
	}
	return nil
}

func (m *Driver) CreateContext(dpy ports.Display, cfg ports.ConfigID, width, height int, flags int, targets []ports.SurfaceID) (ports.ContextID, error) {
	m.record("CreateContext")
	if m.CreateContextFunc != nil {
		return m.CreateContextFunc(dpy, cfg, width, height, flags, targets)
	}
	if m.Next != nil {
		return m.Next.CreateContext(dpy, cfg, width, height, flags, targets)
	}
	return 1, nil
}

func (m *Driver) DestroyContext(dpy ports.Display, id ports.ContextID) error {
	m.record("DestroyContext")
	if m.DestroyContextFunc != nil {
		return m.DestroyContextFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.DestroyContext(dpy, id)
	}
	return nil
}

func (m *Driver) CreateBuffer(dpy ports.Display, ctx ports.ContextID, typ ports.BufferType, size int, data any) (ports.BufferID, error) {
	m.record("CreateBuffer")
	if m.CreateBufferFunc != nil {
		return m.CreateBufferFunc(dpy, ctx, typ, size, data)
	}
	if m.Next != nil {
		return m.Next.CreateBuffer(dpy, ctx, typ, size, data)
	}
	return 1, nil
}

func (m *Driver) MapBuffer(dpy ports.Display, id ports.BufferID) (any, error) {
	m.record("MapBuffer")
	if m.MapBufferFunc != nil {
		return m.MapBufferFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.MapBuffer(dpy, id)
	}
	return &ports.CodedSegment{}, nil
}

func (m *Driver) UnmapBuffer(dpy ports.Display, id ports.BufferID) error {
	m.record("UnmapBuffer")
	if m.UnmapBufferFunc != nil {
		return m.UnmapBufferFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.UnmapBuffer(dpy, id)
	}
	return nil
}

func (m *Driver) DestroyBuffer(dpy ports.Display, id ports.BufferID) error {
	m.record("DestroyBuffer")
	if m.DestroyBufferFunc != nil {
		return m.DestroyBufferFunc(dpy, id)
	}
	if m.Next != nil {
		return m.Next.DestroyBuffer(dpy, id)
	}
	return nil
}

func (m *Driver) BeginPicture(dpy ports.Display, ctx ports.ContextID, target ports.SurfaceID) error {
	m.record("BeginPicture")
	if m.BeginPictureFunc != nil {
		return m.BeginPictureFunc(dpy, ctx, target)
	}
	if m.Next != nil {
		return m.Next.BeginPicture(dpy, ctx, target)
	}
	return nil
}

func (m *Driver) RenderPicture(dpy ports.Display, ctx ports.ContextID, bufs ...ports.BufferID) error {
	m.record("RenderPicture")
	if m.RenderPictureFunc != nil {
		return m.RenderPictureFunc(dpy, ctx, bufs...)
	}
	if m.Next != nil {
		return m.Next.RenderPicture(dpy, ctx, bufs...)
	}
	return nil
}

func (m *Driver) EndPicture(dpy ports.Display, ctx ports.ContextID) error {
	m.record("EndPicture")
	if m.EndPictureFunc != nil {
		return m.EndPictureFunc(dpy, ctx)
	}
	if m.Next != nil {
		return m.Next.EndPicture(dpy, ctx)
	}
	return nil
}

var _ ports.Driver = (*Driver)(nil)
