// Package softva provides a software implementation of ports.Driver.
//
// It keeps every driver object in memory, wraps external surface memory
// without copying, produces real JPEG output for the JPEG baseline profile and
// a compact picture record for the H.263 baseline profile. Encoding happens at
// EndPicture; SyncSurface reports the outcome.
package softva

import (
	"sync"

	"github.com/user/vaencoder/pkg/ports"
)

const (
	versionMajor = 1
	versionMinor = 16

	defaultSegmentSize = 4096
)

// Options configures a Driver.
type Options struct {
	// Formats is the advertised render-target format mask.
	Formats ports.RTFormat
	// RateControl is the advertised rate-control mask.
	RateControl ports.RateControlMode
	// SegmentSize is the maximum length of one coded segment.
	SegmentSize int
	// Vendor is returned by QueryVendorString.
	Vendor string
	// Profiles lists the supported profiles. Empty means JPEG and H.263 baseline.
	Profiles []ports.Profile
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		Formats:     ports.RTFormatYUV420 | ports.RTFormatYUV422,
		RateControl: ports.RateControlNone | ports.RateControlCBR | ports.RateControlVBR | ports.RateControlVCM,
		SegmentSize: defaultSegmentSize,
		Vendor:      "softva software encoder",
		Profiles:    []ports.Profile{ports.ProfileJPEGBaseline, ports.ProfileH263Baseline},
	}
}

// Driver is an in-memory acceleration driver.
type Driver struct {
	mu       sync.Mutex
	opts     Options
	nextID   uint32
	displays map[ports.Display]*display
}

type display struct {
	initialized bool
	configs     map[ports.ConfigID]*config
	surfaces    map[ports.SurfaceID]*surface
	contexts    map[ports.ContextID]*vaContext
	buffers     map[ports.BufferID]*buffer
}

type config struct {
	profile     ports.Profile
	entrypoint  ports.Entrypoint
	format      ports.RTFormat
	rateControl ports.RateControlMode
}

type vaContext struct {
	config  *config
	width   int
	height  int
	frames  int
	seq     *ports.H263SequenceParams
	picture *picture
}

// New creates a Driver with DefaultOptions.
func New() *Driver {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Driver. Zero fields take their default.
func NewWithOptions(opts Options) *Driver {
	def := DefaultOptions()
	if opts.Formats == 0 {
		opts.Formats = def.Formats
	}
	if opts.RateControl == 0 {
		opts.RateControl = def.RateControl
	}
	if opts.SegmentSize <= 0 {
		opts.SegmentSize = def.SegmentSize
	}
	if opts.Vendor == "" {
		opts.Vendor = def.Vendor
	}
	if len(opts.Profiles) == 0 {
		opts.Profiles = def.Profiles
	}
	return &Driver{
		opts:     opts,
		displays: make(map[ports.Display]*display),
	}
}

func (d *Driver) id() uint32 {
	d.nextID++
	return d.nextID
}

// display returns an initialized display. Callers hold d.mu.
func (d *Driver) display(dpy ports.Display) (*display, error) {
	ds, ok := d.displays[dpy]
	if !ok || !ds.initialized {
		return nil, ports.StatusInvalidDisplay
	}
	return ds, nil
}

// GetDisplay opens a new display.
func (d *Driver) GetDisplay() (ports.Display, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dpy := ports.Display(d.id())
	d.displays[dpy] = &display{
		configs:  make(map[ports.ConfigID]*config),
		surfaces: make(map[ports.SurfaceID]*surface),
		contexts: make(map[ports.ContextID]*vaContext),
		buffers:  make(map[ports.BufferID]*buffer),
	}
	return dpy, nil
}

// Initialize marks the display ready.
func (d *Driver) Initialize(dpy ports.Display) (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, ok := d.displays[dpy]
	if !ok {
		return 0, 0, ports.StatusInvalidDisplay
	}
	ds.initialized = true
	return versionMajor, versionMinor, nil
}

// Terminate drops the display and every object created on it.
func (d *Driver) Terminate(dpy ports.Display) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.displays[dpy]; !ok {
		return ports.StatusInvalidDisplay
	}
	delete(d.displays, dpy)
	return nil
}

// QueryVendorString returns the configured vendor string.
func (d *Driver) QueryVendorString(dpy ports.Display) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.display(dpy); err != nil {
		return "", err
	}
	return d.opts.Vendor, nil
}

// Vendor returns the vendor string without opening a display.
func (d *Driver) Vendor() string {
	return d.opts.Vendor
}

func (d *Driver) supports(profile ports.Profile) bool {
	for _, p := range d.opts.Profiles {
		if p == profile {
			return true
		}
	}
	return false
}

func entrypointFor(profile ports.Profile) ports.Entrypoint {
	if profile == ports.ProfileJPEGBaseline {
		return ports.EntrypointEncPicture
	}
	return ports.EntrypointEncSlice
}

// QueryConfigEntrypoints lists the single encode entry point of a supported profile.
func (d *Driver) QueryConfigEntrypoints(dpy ports.Display, profile ports.Profile) ([]ports.Entrypoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.display(dpy); err != nil {
		return nil, err
	}
	if !d.supports(profile) {
		return nil, ports.StatusUnsupportedProfile
	}
	return []ports.Entrypoint{entrypointFor(profile)}, nil
}

// GetConfigAttributes reports the RT format and rate-control masks.
func (d *Driver) GetConfigAttributes(dpy ports.Display, profile ports.Profile, entrypoint ports.Entrypoint, attribs []ports.ConfigAttrib) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.display(dpy); err != nil {
		return err
	}
	if !d.supports(profile) {
		return ports.StatusUnsupportedProfile
	}
	if entrypoint != entrypointFor(profile) {
		return ports.StatusUnsupportedEntrypoint
	}
	for i := range attribs {
		switch attribs[i].Type {
		case ports.ConfigAttribRTFormat:
			attribs[i].Value = uint32(d.opts.Formats)
		case ports.ConfigAttribRateControl:
			attribs[i].Value = uint32(d.opts.RateControl)
		default:
			return ports.StatusInvalidParameter
		}
	}
	return nil
}

// CreateConfig records a profile/entry point/format combination.
func (d *Driver) CreateConfig(dpy ports.Display, profile ports.Profile, entrypoint ports.Entrypoint, attribs []ports.ConfigAttrib) (ports.ConfigID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return 0, err
	}
	if !d.supports(profile) {
		return 0, ports.StatusUnsupportedProfile
	}
	if entrypoint != entrypointFor(profile) {
		return 0, ports.StatusUnsupportedEntrypoint
	}

	cfg := &config{profile: profile, entrypoint: entrypoint, format: ports.RTFormatYUV420}
	for _, a := range attribs {
		switch a.Type {
		case ports.ConfigAttribRTFormat:
			if ports.RTFormat(a.Value)&d.opts.Formats == 0 {
				return 0, ports.StatusUnsupportedRTFormat
			}
			cfg.format = ports.RTFormat(a.Value)
		case ports.ConfigAttribRateControl:
			if ports.RateControlMode(a.Value)&d.opts.RateControl == 0 {
				return 0, ports.StatusInvalidParameter
			}
			cfg.rateControl = ports.RateControlMode(a.Value)
		}
	}

	id := ports.ConfigID(d.id())
	ds.configs[id] = cfg
	return id, nil
}

// DestroyConfig forgets a config.
func (d *Driver) DestroyConfig(dpy ports.Display, id ports.ConfigID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	if _, ok := ds.configs[id]; !ok {
		return ports.StatusInvalidConfig
	}
	delete(ds.configs, id)
	return nil
}

// CreateContext binds a config to a geometry.
func (d *Driver) CreateContext(dpy ports.Display, cfgID ports.ConfigID, width, height int, flags int, targets []ports.SurfaceID) (ports.ContextID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return 0, err
	}
	cfg, ok := ds.configs[cfgID]
	if !ok {
		return 0, ports.StatusInvalidConfig
	}
	if width <= 0 || height <= 0 {
		return 0, ports.StatusResolutionNotSupported
	}
	for _, t := range targets {
		if _, ok := ds.surfaces[t]; !ok {
			return 0, ports.StatusInvalidSurface
		}
	}

	id := ports.ContextID(d.id())
	ds.contexts[id] = &vaContext{config: cfg, width: width, height: height}
	return id, nil
}

// DestroyContext forgets a context and the buffers created on it.
func (d *Driver) DestroyContext(dpy ports.Display, id ports.ContextID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, err := d.display(dpy)
	if err != nil {
		return err
	}
	if _, ok := ds.contexts[id]; !ok {
		return ports.StatusInvalidContext
	}
	delete(ds.contexts, id)
	for bid, b := range ds.buffers {
		if b.context == id {
			delete(ds.buffers, bid)
		}
	}
	return nil
}

// Objects reports how many configs, contexts, surfaces and buffers are alive
// on dpy. It lets callers check for leaks.
func (d *Driver) Objects(dpy ports.Display) (configs, contexts, surfaces, buffers int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ds, ok := d.displays[dpy]
	if !ok {
		return 0, 0, 0, 0
	}
	return len(ds.configs), len(ds.contexts), len(ds.surfaces), len(ds.buffers)
}

// Displays reports how many displays are open.
func (d *Driver) Displays() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.displays)
}

var _ ports.Driver = (*Driver)(nil)
