package viewer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/plyview/internal/analysis"
	"github.com/KaramelBytes/plyview/internal/colorize"
	"github.com/KaramelBytes/plyview/internal/parser"
	"github.com/KaramelBytes/plyview/internal/pointcloud"
)

var (
	// ErrNoCloud is returned by operations that need a loaded cloud.
	ErrNoCloud = errors.New("no point cloud loaded")
	// ErrPlotNotFound is returned for an unknown plot id.
	ErrPlotNotFound = errors.New("plot not found")
)

// Session is the state behind one viewer: the loaded cloud, the active
// color mode with its result, and the open histogram panels. Failed
// requests leave the state untouched. Safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	name     string
	cloud    *pointcloud.PointCloud
	settings colorize.Settings

	preset    colorize.Preset
	attribute string
	attrCfg   colorize.Config
	result    *colorize.Result

	plots     map[uuid.UUID]analysis.PlotRequest
	order     []uuid.UUID
	updatedAt time.Time
}

// New returns an empty session that will color with the rgb preset.
func New(settings colorize.Settings) *Session {
	return &Session{
		settings:  settings,
		preset:    colorize.PresetRGB,
		plots:     make(map[uuid.UUID]analysis.PlotRequest),
		updatedAt: time.Now(),
	}
}

// Load parses text and replaces the current cloud. On a parse error the
// previous cloud, colors and plots are kept. The active color mode is
// reapplied to the new cloud; if its attribute is missing the session falls
// back to base colors and reports it in the returned warnings.
func (s *Session) Load(name, text string) ([]string, error) {
	pc, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, warnings := s.recolor(pc)
	s.name, s.cloud, s.result = name, pc, res
	s.updatedAt = time.Now()
	if n := pc.DroppedRows(); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d malformed rows dropped", n))
	}
	if sk := pc.SkippedProperties(); len(sk) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d list properties skipped", len(sk)))
	}
	return warnings, nil
}

// LoadFile reads and loads a .ply file.
func (s *Session) LoadFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Load(filepath.Base(path), string(b))
}

// recolor applies the active mode to pc, degrading to base colors and then
// to the fallback gray.
func (s *Session) recolor(pc *pointcloud.PointCloud) (*colorize.Result, []string) {
	res, err := s.colorize(pc, s.preset, s.attribute, s.attrCfg)
	if err == nil {
		return res, res.Warnings()
	}
	var warnings []string
	if s.attribute != "" || s.preset != colorize.PresetRGB {
		warnings = append(warnings, fmt.Sprintf("%s unavailable (%v), showing base colors", s.modeLocked(), err))
		s.preset, s.attribute = colorize.PresetRGB, ""
		if res, err = colorize.Apply(pc, colorize.PresetRGB, s.settings); err == nil {
			return res, warnings
		}
	}
	warnings = append(warnings, "no base colors, showing gray")
	res = &colorize.Result{Colors: make([]colorize.RGB, pc.Len())}
	for i := range res.Colors {
		res.Colors[i] = colorize.Fallback
	}
	return res, warnings
}

func (s *Session) colorize(pc *pointcloud.PointCloud, p colorize.Preset, attr string, cfg colorize.Config) (*colorize.Result, error) {
	if attr != "" {
		return colorize.ByAttribute(pc, attr, cfg)
	}
	return colorize.Apply(pc, p, s.settings)
}

// SetPreset switches the color mode. A missing attribute or bad setting
// returns an error and keeps the previous mode and colors.
func (s *Session) SetPreset(p colorize.Preset) ([]string, error) {
	return s.apply(p, "", colorize.Config{})
}

// ColorBy colors by an arbitrary column with an explicit config.
func (s *Session) ColorBy(name string, cfg colorize.Config) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("color by: empty attribute name: %w", colorize.ErrInvalidConfig)
	}
	return s.apply("", name, cfg)
}

func (s *Session) apply(p colorize.Preset, attr string, cfg colorize.Config) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cloud == nil {
		return nil, ErrNoCloud
	}
	res, err := s.colorize(s.cloud, p, attr, cfg)
	if err != nil {
		return nil, err
	}
	s.preset, s.attribute, s.attrCfg, s.result = p, attr, cfg, res
	s.updatedAt = time.Now()
	return res.Warnings(), nil
}

// SetSettings replaces the preset settings and recolors when a preset is
// active. Invalid settings are rejected without changing anything.
func (s *Session) SetSettings(settings colorize.Settings) ([]string, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.settings
	s.settings = settings
	if s.cloud == nil || s.attribute != "" {
		return nil, nil
	}
	res, err := colorize.Apply(s.cloud, s.preset, settings)
	if err != nil {
		s.settings = prev
		return nil, err
	}
	s.result = res
	s.updatedAt = time.Now()
	return res.Warnings(), nil
}

// Name is the name of the loaded cloud, empty before the first Load.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Cloud returns the loaded cloud or nil.
func (s *Session) Cloud() *pointcloud.PointCloud {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud
}

// Colors returns the current colorization, nil before the first Load.
func (s *Session) Colors() *colorize.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Mode describes the active color mode, e.g. "curvature" or "attribute:z".
func (s *Session) Mode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modeLocked()
}

func (s *Session) modeLocked() string {
	if s.attribute != "" {
		return "attribute:" + s.attribute
	}
	return string(s.preset)
}

// UpdatedAt is the time of the last successful state change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// AddPlot adds a histogram panel, or replaces the one with the same id.
// A request without an id gets a fresh one. The column must exist in the
// loaded cloud.
func (s *Session) AddPlot(req analysis.PlotRequest) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cloud == nil {
		return uuid.Nil, ErrNoCloud
	}
	if _, err := s.cloud.Require(req.X); err != nil {
		return uuid.Nil, fmt.Errorf("add plot: %w", err)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if _, ok := s.plots[req.ID]; !ok {
		s.order = append(s.order, req.ID)
	}
	s.plots[req.ID] = req
	s.updatedAt = time.Now()
	return req.ID, nil
}

// RemovePlot closes a panel and reports whether it existed.
func (s *Session) RemovePlot(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plots[id]; !ok {
		return false
	}
	delete(s.plots, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.updatedAt = time.Now()
	return true
}

// Plots lists the open panels in the order they were added.
func (s *Session) Plots() []analysis.PlotRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]analysis.PlotRequest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.plots[id])
	}
	return out
}

// Histogram bins a panel's column of the current cloud.
func (s *Session) Histogram(id uuid.UUID) (analysis.Histogram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.plots[id]
	if !ok {
		return analysis.Histogram{}, fmt.Errorf("%s: %w", id, ErrPlotNotFound)
	}
	if s.cloud == nil {
		return analysis.Histogram{}, ErrNoCloud
	}
	return req.Build(s.cloud)
}
