// Package manifest defines the declarative schema an adapter ships in its
// manifest file, plus parsing and advisory validation.
//
// A manifest is data only. It is parsed once when the adapter is discovered and
// never mutated afterwards. Field names are matched case-insensitively for both
// JSON and YAML manifests.
package manifest

import "time"

// DefaultVersion is assumed when a manifest omits its format version.
const DefaultVersion = "1.0"

// DefaultCacheTime is the cache lifetime used when a data source declares none.
const DefaultCacheTime = 1000 * time.Millisecond

// Anchor names understood by the HUD layout.
const (
	AnchorTopLeft     = "topLeft"
	AnchorTopRight    = "topRight"
	AnchorBottomLeft  = "bottomLeft"
	AnchorBottomRight = "bottomRight"
	AnchorCenter      = "center"
)

// Manifest describes one adapter's HUD elements, menus, and notification rules.
type Manifest struct {
	Version       string              `json:"version"`
	ModID         string              `json:"modId"`
	ModVersion    string              `json:"modVersion"`
	Author        string              `json:"author"`
	DisplayName   string              `json:"displayName"`
	Description   string              `json:"description"`
	Detection     *DetectionConfig    `json:"detection,omitempty"`
	Hud           HudConfig           `json:"hud"`
	Menus         []MenuDef           `json:"menus,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty"`
}

// DetectionConfig says how to decide whether the target mod is present.
// Veil parses it but does not execute it.
type DetectionConfig struct {
	Method           string `json:"method"` // "command" or "assembly"
	Command          string `json:"command"`
	ExpectedResponse string `json:"expectedResponse"`
}

// HudConfig holds the ordered HUD element list.
type HudConfig struct {
	Elements []HudElementDef `json:"elements"`
}

// HudElementDef is one declarative on-screen element.
type HudElementDef struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Position   *PositionDef   `json:"position,omitempty"`
	Size       *SizeDef       `json:"size,omitempty"`
	Style      *StyleDef      `json:"style,omitempty"`
	Icon       string         `json:"icon,omitempty"` // relative to the adapter folder
	DataSource *DataSourceDef `json:"dataSource,omitempty"`
}

// PositionDef places an element relative to its anchor, in reference pixels.
type PositionDef struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor"`
}

// SizeDef is an element size in reference pixels.
type SizeDef struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StyleDef carries colors and border settings.
type StyleDef struct {
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	ForegroundColor string  `json:"foregroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	CornerRadius    float64 `json:"cornerRadius,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty"`
}

// DataSourceDef binds an element to a command and a response pattern.
type DataSourceDef struct {
	Command         string       `json:"command"`
	Pattern         string       `json:"pattern"`
	Mapping         FieldMapping `json:"mapping,omitempty"`
	RefreshInterval int          `json:"refreshInterval"` // milliseconds, 0 = manual only
	CacheTime       int          `json:"cacheTime"`       // milliseconds
}

// Interval returns the refresh cadence. Zero means manual refresh only.
func (d DataSourceDef) Interval() time.Duration {
	if d.RefreshInterval <= 0 {
		return 0
	}
	return time.Duration(d.RefreshInterval) * time.Millisecond
}

// EffectiveCacheTime returns the cache lifetime, falling back to
// DefaultCacheTime when the declared value is not positive.
func (d DataSourceDef) EffectiveCacheTime() time.Duration {
	if d.CacheTime <= 0 {
		return DefaultCacheTime
	}
	return time.Duration(d.CacheTime) * time.Millisecond
}

// MenuDef is a hotkey-opened, tabbed menu.
type MenuDef struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Hotkey   string       `json:"hotkey"`
	Position *PositionDef `json:"position,omitempty"`
	Size     *SizeDef     `json:"size,omitempty"`
	Tabs     []TabDef     `json:"tabs,omitempty"`
}

// TabDef is a single menu tab.
type TabDef struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Content *ContentDef `json:"content,omitempty"`
}

// ContentDef is what a tab shows: live data, actions, or both.
type ContentDef struct {
	Type       string         `json:"type"`
	DataSource *DataSourceDef `json:"dataSource,omitempty"`
	Actions    []ActionDef    `json:"actions,omitempty"`
}

// ActionDef is a command sent when the user activates it.
type ActionDef struct {
	Label   string `json:"label"`
	Command string `json:"command"`
	Icon    string `json:"icon,omitempty"`
}

// NotificationConfig lists the inbound line patterns that raise toasts.
type NotificationConfig struct {
	Patterns []NotificationPattern `json:"patterns"`
}

// NotificationPattern associates a regex with a toast style and sound.
type NotificationPattern struct {
	Match string `json:"match"`
	Style string `json:"style"`
	Sound string `json:"sound,omitempty"`
}

func (m *Manifest) applyDefaults() {
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	if m.Detection != nil && m.Detection.Method == "" {
		m.Detection.Method = "command"
	}
	for i := range m.Hud.Elements {
		if p := m.Hud.Elements[i].Position; p != nil && p.Anchor == "" {
			p.Anchor = AnchorTopLeft
		}
	}
}
