// Package config holds the option model for the delegation engine: a typed
// Options struct assembled from layered map[string]any trees via a
// pollution-safe deep merge, an optional TOML file loader, and a file
// watcher for hot reload.
package config

import "log"

// Default attribute convention and actionable tag set. A node signals it is
// actionable for occurrence type T by carrying the attribute
// "<ActionPrefix>-T" whose value is the action name.
const DefaultActionPrefix = "data-action"

var defaultActionableTags = []string{"button", "a", "input", "select", "textarea"}

// Options carries the engine flags. Built once at construction and
// read-only afterward.
type Options struct {
	// ActionPrefix is the attribute name prefix marking actionable nodes.
	ActionPrefix string

	// ActionableTags lists tag names that qualify as actionable even
	// without an action attribute.
	ActionableTags []string

	// AutoTargetResolution walks decorative raw targets up to their
	// enclosing control. When false, only the literal raw target is
	// inspected.
	AutoTargetResolution bool

	// EnableDistanceCache memoizes tree-distance computations.
	EnableDistanceCache bool

	// MethodsFirst consults the external method map before
	// instance-scoped handlers.
	MethodsFirst bool

	// EnableGlobalFallback allows handler resolution to fall through to
	// the injected global lookup table.
	EnableGlobalFallback bool

	// EnableStats collects dispatch counters.
	EnableStats bool

	// AbortEnabled arms the engine's cancellation context.
	AbortEnabled bool

	// EnableHandlerValidation logs a warning when no handler resolves for
	// an action name.
	EnableHandlerValidation bool

	// Logger receives diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// Default returns the baseline options.
func Default() Options {
	return Options{
		ActionPrefix:         DefaultActionPrefix,
		ActionableTags:       append([]string(nil), defaultActionableTags...),
		AutoTargetResolution: true,
		EnableDistanceCache:  true,
		EnableStats:          true,
		Logger:               log.Default(),
	}
}

// FromMap builds Options from the defaults overlaid with the given layers,
// merged in order with DeepMerge. Unknown keys are ignored; dangerous keys
// are dropped by the merge itself.
//
// Recognized keys use the engine's wire spelling: actionPrefix,
// actionableTags, autoTargetResolution, enableDistanceCache, methodsFirst,
// enableGlobalFallback, enableStats, abortEnabled, enableHandlerValidation.
func FromMap(layers ...map[string]any) Options {
	merged := make(map[string]any)
	for _, layer := range layers {
		merged = DeepMerge(merged, layer)
	}

	opts := Default()
	if v, ok := stringAt(merged, "actionPrefix"); ok {
		opts.ActionPrefix = v
	}
	if v, ok := stringsAt(merged, "actionableTags"); ok {
		opts.ActionableTags = v
	}
	boolAt(merged, "autoTargetResolution", &opts.AutoTargetResolution)
	boolAt(merged, "enableDistanceCache", &opts.EnableDistanceCache)
	boolAt(merged, "methodsFirst", &opts.MethodsFirst)
	boolAt(merged, "enableGlobalFallback", &opts.EnableGlobalFallback)
	boolAt(merged, "enableStats", &opts.EnableStats)
	boolAt(merged, "abortEnabled", &opts.AbortEnabled)
	boolAt(merged, "enableHandlerValidation", &opts.EnableHandlerValidation)
	return opts
}

func boolAt(data map[string]any, path string, dst *bool) {
	if v, ok := GetByPath(data, path); ok {
		if b, ok := v.(bool); ok {
			*dst = b
		}
	}
}

func stringAt(data map[string]any, path string) (string, bool) {
	if v, ok := GetByPath(data, path); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func stringsAt(data map[string]any, path string) ([]string, bool) {
	v, ok := GetByPath(data, path)
	if !ok {
		return nil, false
	}
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...), true
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
