package pty

import (
	"os"
	"strings"
)

// Environment is the process environment a child is spawned with.
type Environment struct {
	// Vars holds "KEY=value" pairs, passed to the child as-is.
	Vars []string
	// Dir is the working directory. Empty means the caller's directory.
	Dir string
}

// InheritEnvironment captures the caller's full environment and working
// directory. A working directory that cannot be read is left empty.
func InheritEnvironment() Environment {
	env := Environment{Vars: os.Environ()}
	if cwd, err := os.Getwd(); err == nil {
		env.Dir = cwd
	}
	return env
}

// With returns a copy of env with key set to value, replacing any previous value.
func (env Environment) With(key, value string) Environment {
	prefix := key + "="
	vars := make([]string, 0, len(env.Vars)+1)
	for _, kv := range env.Vars {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		vars = append(vars, kv)
	}
	vars = append(vars, prefix+value)
	return Environment{Vars: vars, Dir: env.Dir}
}

// Lookup returns the value of key in env.
func (env Environment) Lookup(key string) (string, bool) {
	prefix := key + "="
	for i := len(env.Vars) - 1; i >= 0; i-- {
		if value, ok := strings.CutPrefix(env.Vars[i], prefix); ok {
			return value, true
		}
	}
	return "", false
}
