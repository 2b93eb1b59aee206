package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Add(format string, args ...any) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%d validation error(s)", len(v.Problems))
}

func (c *Config) Validate() error {
	v := &ValidationError{}

	if c.ConfigVersion != 1 {
		v.Add("configVersion must be 1")
	}

	switch c.Mode {
	case "", ModeEnforce, ModeShadow:
	default:
		v.Add("mode must be enforce|shadow")
	}

	c.validatePatterns(v, "patterns.drop", c.Patterns.Drop)
	c.validatePatterns(v, "patterns.cutoff", c.Patterns.Cutoff)
	if !c.UseDefaultPatterns() && len(c.Patterns.Drop) == 0 && len(c.Patterns.Cutoff) == 0 {
		v.Add("patterns: useDefaults is false and no drop or cutoff patterns are configured")
	}
	validateSpamTail(v, "spamTail", c.SpamTail)

	for name, source := range c.Sources {
		if strings.TrimSpace(name) == "" {
			v.Add("sources has an empty name")
			continue
		}
		c.validatePatterns(v, "sources."+name+".drop", source.Drop)
		c.validatePatterns(v, "sources."+name+".cutoff", source.Cutoff)
		if source.SpamTail != nil {
			validateSpamTail(v, "sources."+name+".spamTail", *source.SpamTail)
		}
	}

	if err := validateListen(c.Server.Listen); err != nil {
		v.Add("server.listen invalid: %v", err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		v.Add("server.maxBodyBytes must be > 0")
	}
	if c.Server.ReadTimeout <= 0 {
		v.Add("server.readTimeout must be > 0")
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			v.Add("server.rateLimit.rps must be > 0")
		}
		if c.Server.RateLimit.Burst <= 0 {
			v.Add("server.rateLimit.burst must be > 0")
		}
		if code := c.Server.RateLimit.StatusCode; code != 0 && (code < 400 || code > 599) {
			v.Add("server.rateLimit.statusCode must be a 4xx or 5xx code")
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		v.Add("logging.level must be trace|debug|info|warn|error")
	}
	switch c.Logging.Format {
	case "", FormatConsole, FormatJSON:
	default:
		v.Add("logging.format must be console|json")
	}
	if c.Logging.RecordLog != "" {
		if err := ensureDir(c.resolvePath(c.Logging.RecordLog)); err != nil {
			v.Add("logging.recordLog invalid: %v", err)
		}
	}

	if c.Metrics.Enabled {
		if err := validateListen(c.Metrics.Listen); err != nil {
			v.Add("metrics.listen invalid: %v", err)
		}
	}

	if len(v.Problems) > 0 {
		sort.Strings(v.Problems)
		return v
	}
	return nil
}

func (c *Config) validatePatterns(v *ValidationError, field string, patterns []PatternConfig) {
	ids := map[string]struct{}{}
	for i, p := range patterns {
		if p.ID == "" {
			v.Add("%s[%d].id is required", field, i)
		} else if _, exists := ids[p.ID]; exists {
			v.Add("%s[%d].id %q is duplicated", field, i, p.ID)
		} else {
			ids[p.ID] = struct{}{}
		}

		switch {
		case p.Pattern != "" && p.PatternsFile != "":
			v.Add("%s[%d] must set only one of pattern or patternsFile", field, i)
		case p.Pattern != "":
			if _, err := regexp.Compile("(?i)" + p.Pattern); err != nil {
				v.Add("%s[%d].pattern invalid: %v", field, i, err)
			}
		case p.PatternsFile != "":
			if err := requireFile(c.resolvePath(p.PatternsFile)); err != nil {
				v.Add("%s[%d].patternsFile invalid: %v", field, i, err)
			}
		default:
			v.Add("%s[%d] requires pattern or patternsFile", field, i)
		}
	}
}

func validateSpamTail(v *ValidationError, field string, s SpamTailConfig) {
	if s.MaxWords < 0 {
		v.Add("%s.maxWords must be >= 0", field)
	}
	if s.MinRun != 0 && s.MinRun < 2 {
		v.Add("%s.minRun must be >= 2", field)
	}
}

func validateListen(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("address is required")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// ensureDir fails when the log path or its parent exists but has the wrong
// type. Missing directories are created when the log is opened.
func ensureDir(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
