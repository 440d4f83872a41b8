// Package config handles configuration loading and merging for veil.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--adapters, --transport, --theme, --no-color, etc.)
//  2. Environment variables (VEIL_ADAPTERS_DIR, VEIL_TRANSPORT, NO_COLOR, ...)
//  3. YAML config file (.veil.yaml in the local directory or <user config>/veil/.veil.yaml)
//  4. Hardcoded defaults
//
// # Environment Variables
//
//   - VEIL_ADAPTERS_DIR, VEIL_LAYOUTS_DIR, VEIL_LAYOUT_BACKEND
//   - VEIL_TRANSPORT, VEIL_COMMAND, VEIL_URL
//   - VEIL_THEME, VEIL_NO_COLOR or NO_COLOR
//   - VEIL_LOG_FILE, VEIL_DEBUG, VEIL_METRICS_ADDR
//   - VEIL_START_VISIBLE, VEIL_SOUND
//
// Boolean variables accept anything strconv.ParseBool does; malformed values
// are ignored.
package config
