package config

import "fmt"

// Select returns the engines a command should run against, in file order.
//
//   - opts.All selects every engine.
//   - opts.Engine selects the engine with that hostname.
//   - Otherwise the engines marked default are selected; a file with a
//     single engine needs no default marker.
func (f *File) Select(opts SelectOptions) ([]Engine, error) {
	if len(f.Engines) == 0 {
		return nil, ErrNoEngines
	}

	if opts.All {
		return append([]Engine(nil), f.Engines...), nil
	}

	if opts.Engine != "" {
		for _, e := range f.Engines {
			if e.Hostname == opts.Engine {
				return []Engine{e}, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, opts.Engine)
	}

	var defaults []Engine
	for _, e := range f.Engines {
		if e.Default {
			defaults = append(defaults, e)
		}
	}
	if len(defaults) > 0 {
		return defaults, nil
	}
	if len(f.Engines) == 1 {
		return []Engine{f.Engines[0]}, nil
	}
	return nil, fmt.Errorf("%w: use --engine or --all", ErrNoDefaultEngine)
}

// Hostnames returns the hostnames of engines, in order.
func Hostnames(engines []Engine) []string {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Hostname
	}
	return names
}
