package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	lttypes "logotrace/type"
)

// Validate 归一化数值并检查目标颜色与规则
func (c *Config) Validate() error {
	if c.Analysis.Parallel <= 0 {
		c.Analysis.Parallel = 1
	}
	if c.Analysis.TopColors <= 0 {
		c.Analysis.TopColors = 15
	}
	if c.Analysis.PaletteSize <= 0 {
		c.Analysis.PaletteSize = 4
	}
	if c.Analysis.MaxWidth < 0 {
		c.Analysis.MaxWidth = 0
	}
	if c.Text.RowStep <= 0 {
		c.Text.RowStep = 10
	}
	if c.Text.MinTransitions < 0 {
		c.Text.MinTransitions = 5
	}
	if c.Threshold.SolidFillRatio <= 0 || c.Threshold.SolidFillRatio > 1 {
		return fmt.Errorf("threshold.solid_fill_ratio must be in (0, 1], got %v", c.Threshold.SolidFillRatio)
	}
	if c.Threshold.AspectRatio < 1 {
		return fmt.Errorf("threshold.aspect_ratio must be >= 1, got %v", c.Threshold.AspectRatio)
	}

	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one color target is required")
	}
	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("targets[%d]: empty name", i)
		}
		if seen[name] {
			return fmt.Errorf("targets[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
		if t.Tolerance < 0 || t.Tolerance > 255 {
			return fmt.Errorf("target %q: tolerance %d out of range [0, 255]", name, t.Tolerance)
		}
		if _, err := parseHex(t.Color); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
	}

	if err := uniqueRuleNames("groups", c.Groups); err != nil {
		return err
	}
	for _, r := range c.Groups {
		if _, err := r.toRule(); err != nil {
			return fmt.Errorf("group %q: %w", r.Name, err)
		}
	}
	// 条带比例按分类名存放，重名会互相覆盖
	if err := uniqueRuleNames("bands", c.Bands); err != nil {
		return err
	}
	for _, r := range c.Bands {
		if _, err := r.toRule(); err != nil {
			return fmt.Errorf("band class %q: %w", r.Name, err)
		}
		if r.MinFraction < 0 || r.MinFraction >= 1 {
			return fmt.Errorf("band class %q: min_fraction %v out of range [0, 1)", r.Name, r.MinFraction)
		}
	}
	if _, err := c.Text.Dark.toRule(); err != nil {
		return fmt.Errorf("text.dark: %w", err)
	}
	return nil
}

func uniqueRuleNames(section string, rules []RuleConfig) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		name := strings.TrimSpace(r.Name)
		if name != "" && seen[name] {
			return fmt.Errorf("%s[%d]: duplicate name %q", section, i, name)
		}
		seen[name] = true
	}
	return nil
}

// ColorTargets 将配置转换为分割用的目标颜色
func (c *Config) ColorTargets() ([]lttypes.ColorTarget, error) {
	targets := make([]lttypes.ColorTarget, 0, len(c.Targets))
	for _, t := range c.Targets {
		rgb, err := parseHex(t.Color)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", t.Name, err)
		}
		targets = append(targets, lttypes.ColorTarget{
			Name:       strings.TrimSpace(t.Name),
			Color:      rgb,
			Tolerance:  t.Tolerance,
			Background: t.Background,
		})
	}
	return targets, nil
}

// GroupRules 返回直方图分组规则
func (c *Config) GroupRules() ([]lttypes.NamedRule, error) {
	return toNamedRules(c.Groups)
}

// BandRules 返回条带分类规则，顺序即判定优先级
func (c *Config) BandRules() ([]lttypes.NamedRule, error) {
	return toNamedRules(c.Bands)
}

// DarkRule 返回文本启发式中的深色像素判定
func (c *Config) DarkRule() (lttypes.ColorRule, error) {
	return c.Text.Dark.toRule()
}

func toNamedRules(cfgs []RuleConfig) ([]lttypes.NamedRule, error) {
	rules := make([]lttypes.NamedRule, 0, len(cfgs))
	for _, rc := range cfgs {
		r, err := rc.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rc.Name, err)
		}
		rules = append(rules, lttypes.NamedRule{Name: strings.TrimSpace(rc.Name), Rule: r, MinFraction: rc.MinFraction})
	}
	return rules, nil
}

func (rc RuleConfig) toRule() (lttypes.ColorRule, error) {
	if strings.TrimSpace(rc.Name) == "" {
		return lttypes.ColorRule{}, fmt.Errorf("empty name")
	}
	r, err := toRange(rc.R)
	if err != nil {
		return lttypes.ColorRule{}, fmt.Errorf("r: %w", err)
	}
	g, err := toRange(rc.G)
	if err != nil {
		return lttypes.ColorRule{}, fmt.Errorf("g: %w", err)
	}
	b, err := toRange(rc.B)
	if err != nil {
		return lttypes.ColorRule{}, fmt.Errorf("b: %w", err)
	}
	cmp := strings.ToLower(strings.ReplaceAll(rc.Compare, " ", ""))
	if cmp != "" {
		if _, _, ok := lttypes.ParseCompare(cmp); !ok {
			return lttypes.ColorRule{}, fmt.Errorf("invalid compare %q, want e.g. \"b>g\"", rc.Compare)
		}
	}
	return lttypes.ColorRule{R: r, G: g, B: b, Compare: cmp}, nil
}

func toRange(v []int) (lttypes.ChannelRange, error) {
	switch len(v) {
	case 0:
		return lttypes.AnyChannel, nil
	case 2:
		if v[0] < 0 || v[1] > 255 || v[0] > v[1] {
			return lttypes.ChannelRange{}, fmt.Errorf("invalid range [%d, %d]", v[0], v[1])
		}
		return lttypes.ChannelRange{Min: uint8(v[0]), Max: uint8(v[1])}, nil
	default:
		return lttypes.ChannelRange{}, fmt.Errorf("range needs [min, max], got %v", v)
	}
}

func parseHex(s string) (lttypes.RGB, error) {
	col, err := colorful.Hex(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return lttypes.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return lttypes.RGB{R: r, G: g, B: b}, nil
}
