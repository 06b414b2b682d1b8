package core

// CacheControlValue is the value shape accepted by a caching control input.
type CacheControlValue int

const (
	// CacheControlBoolean means the input takes the literals "true"/"false".
	CacheControlBoolean CacheControlValue = iota
	// CacheControlString means the input takes a free-form string, such as
	// a package manager name.
	CacheControlString
)

// CacheAwareAction describes how a known action's cache restoration is
// controlled. The two variants are closed: an action either always restores
// a cache or exposes exactly one control input.
type CacheAwareAction interface {
	ActionRef() *ActionRef
}

// FixedCacheAction always restores a cache; no input toggles it.
type FixedCacheAction struct {
	Uses *ActionRef
}

func (a *FixedCacheAction) ActionRef() *ActionRef {
	return a.Uses
}

// ConfigurableCacheAction restores a cache depending on one control input.
type ConfigurableCacheAction struct {
	Uses *ActionRef
	// ControlInput is the name of the input controlling caching.
	ControlInput string
	// OptIn means a matching control value enables caching; otherwise a
	// matching value disables it.
	OptIn bool
	// ControlValue is the value shape the control input accepts.
	ControlValue CacheControlValue
	// CachingByDefault is the behavior when the control input is absent.
	CachingByDefault bool
}

func (a *ConfigurableCacheAction) ActionRef() *ActionRef {
	return a.Uses
}

// knownCacheAwareActions catalogues the actions known to restore a
// dependency or build cache, with how each one is configured. Entries are
// hand-curated from each action's action.yml.
var knownCacheAwareActions = []CacheAwareAction{
	// https://github.com/actions/cache/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("actions/cache"),
		ControlInput:     "lookup-only",
		OptIn:            false,
		ControlValue:     CacheControlBoolean,
		CachingByDefault: true,
	},
	// https://github.com/actions/setup-java/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("actions/setup-java"),
		ControlInput:     "cache",
		OptIn:            true,
		ControlValue:     CacheControlString,
		CachingByDefault: false,
	},
	// https://github.com/actions/setup-go/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("actions/setup-go"),
		ControlInput:     "cache",
		OptIn:            true,
		ControlValue:     CacheControlBoolean,
		CachingByDefault: true,
	},
	// https://github.com/actions/setup-node/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("actions/setup-node"),
		ControlInput:     "cache",
		OptIn:            true,
		ControlValue:     CacheControlString,
		CachingByDefault: false,
	},
	// https://github.com/actions/setup-python/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("actions/setup-python"),
		ControlInput:     "cache",
		OptIn:            true,
		ControlValue:     CacheControlString,
		CachingByDefault: false,
	},
	// https://github.com/actions/setup-dotnet/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("actions/setup-dotnet"),
		ControlInput:     "cache",
		OptIn:            true,
		ControlValue:     CacheControlBoolean,
		CachingByDefault: false,
	},
	// https://github.com/astral-sh/setup-uv/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("astral-sh/setup-uv"),
		ControlInput:     "enable-cache",
		OptIn:            false,
		ControlValue:     CacheControlString,
		CachingByDefault: true,
	},
	// https://github.com/Swatinem/rust-cache/blob/master/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("Swatinem/rust-cache"),
		ControlInput:     "lookup-only",
		OptIn:            false,
		ControlValue:     CacheControlBoolean,
		CachingByDefault: true,
	},
	// https://github.com/ruby/setup-ruby/blob/master/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("ruby/setup-ruby"),
		ControlInput:     "bundler-cache",
		OptIn:            true,
		ControlValue:     CacheControlBoolean,
		CachingByDefault: false,
	},
	// https://github.com/PyO3/maturin-action/blob/main/action.yml
	&ConfigurableCacheAction{
		Uses:             mustActionRef("PyO3/maturin-action"),
		ControlInput:     "sccache",
		OptIn:            true,
		ControlValue:     CacheControlBoolean,
		CachingByDefault: false,
	},
	// https://github.com/Mozilla-Actions/sccache-action/blob/main/action.yml
	&FixedCacheAction{
		Uses: mustActionRef("Mozilla-Actions/sccache-action"),
	},
}

// lookupCacheAwareAction finds the registry entry for the given action,
// ignoring the pinned ref. Returns nil when the action is not known to
// restore caches.
func lookupCacheAwareAction(target *ActionRef) CacheAwareAction {
	for _, known := range knownCacheAwareActions {
		if target.SameAction(known.ActionRef()) {
			return known
		}
	}
	return nil
}
