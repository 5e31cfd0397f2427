package registry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-vkgen/internal/ctxlog"
)

// DefaultExtensionClass is the supported value selecting extensions by
// default.
const DefaultExtensionClass = "vulkan"

// WalkOptions selects the features and extensions visited by Walk. Nil
// patterns take their documented default.
type WalkOptions struct {
	// APIName filters <feature> api lists and api attributes.
	APIName string
	// Versions selects <feature> elements by name. Nil selects all.
	Versions *regexp.Regexp
	// EmitVersions selects which selected features are emitted. Nil emits all.
	EmitVersions *regexp.Regexp
	// DefaultExtensions selects extensions whose supported list contains it.
	// Empty disables the default class.
	DefaultExtensions string
	// AddExtensions selects additional extensions by name. Nil adds none.
	AddExtensions *regexp.Regexp
	// RemoveExtensions drops extensions by name. Nil removes none.
	RemoveExtensions *regexp.Regexp
	// EmitExtensions selects which selected extensions are emitted. Nil emits
	// all.
	EmitExtensions *regexp.Regexp
}

// WalkOption mutates WalkOptions during construction.
type WalkOption func(*WalkOptions)

// WithWalkAPIName overrides the target API.
func WithWalkAPIName(name string) WalkOption {
	return func(opts *WalkOptions) {
		if name != "" {
			opts.APIName = name
		}
	}
}

// WithVersions restricts the visited core versions.
func WithVersions(pattern *regexp.Regexp) WalkOption {
	return func(opts *WalkOptions) {
		opts.Versions = pattern
	}
}

// WithEmitVersions restricts which visited core versions are emitted.
func WithEmitVersions(pattern *regexp.Regexp) WalkOption {
	return func(opts *WalkOptions) {
		opts.EmitVersions = pattern
	}
}

// WithDefaultExtensions sets the supported class selected by default.
func WithDefaultExtensions(class string) WalkOption {
	return func(opts *WalkOptions) {
		opts.DefaultExtensions = class
	}
}

// WithAddExtensions selects extra extensions by name.
func WithAddExtensions(pattern *regexp.Regexp) WalkOption {
	return func(opts *WalkOptions) {
		opts.AddExtensions = pattern
	}
}

// WithRemoveExtensions drops extensions by name.
func WithRemoveExtensions(pattern *regexp.Regexp) WalkOption {
	return func(opts *WalkOptions) {
		opts.RemoveExtensions = pattern
	}
}

// WithEmitExtensions restricts which visited extensions are emitted.
func WithEmitExtensions(pattern *regexp.Regexp) WalkOption {
	return func(opts *WalkOptions) {
		opts.EmitExtensions = pattern
	}
}

// NewWalkOptions applies WalkOption functions over the defaults.
func NewWalkOptions(options ...WalkOption) WalkOptions {
	cfg := WalkOptions{
		APIName:           DefaultAPIName,
		DefaultExtensions: DefaultExtensionClass,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// NamePattern compiles a list of names or patterns into an expression that
// matches exactly one of them. An empty list yields nil.
func NamePattern(names []string) (*regexp.Regexp, error) {
	var parts []string
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	re, err := regexp.Compile("^(" + strings.Join(parts, "|") + ")$")
	if err != nil {
		return nil, fmt.Errorf("registry: compile name pattern: %w", err)
	}
	return re, nil
}

// Selection is a feature chosen for the walk together with its emit flag.
type Selection struct {
	Feature *FeatureInfo
	Emit    bool
}

// Select returns the features and extensions visited for opts, sorted in
// generation order.
func Select(reg *Registry, opts WalkOptions) []Selection {
	if reg == nil {
		return nil
	}
	opts = normalizeWalkOptions(opts)

	var out []Selection
	for _, f := range reg.Features {
		if f.IsExtension() {
			include := opts.DefaultExtensions != "" && containsName(f.Supported, opts.DefaultExtensions)
			if matches(opts.AddExtensions, f.Name, false) {
				include = true
			}
			if matches(opts.RemoveExtensions, f.Name, false) {
				include = false
			}
			if include {
				out = append(out, Selection{Feature: f, Emit: matches(opts.EmitExtensions, f.Name, true)})
			}
			continue
		}
		if !containsName(f.APIs, opts.APIName) {
			continue
		}
		if matches(opts.Versions, f.Name, true) {
			out = append(out, Selection{Feature: f, Emit: matches(opts.EmitVersions, f.Name, true)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return lessFeature(out[i].Feature, out[j].Feature)
	})
	return out
}

// Walk drives v through the selected features of reg. Every type, enum and
// command required by a feature is generated once, after the entries it
// depends on.
func Walk(ctx context.Context, reg *Registry, opts WalkOptions, v Visitor) error {
	if reg == nil {
		return errors.New("registry: walk: registry is nil")
	}
	if v == nil {
		return errors.New("registry: walk: visitor is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	opts = normalizeWalkOptions(opts)
	logger := ctxlog.FromContext(ctx)

	selections := Select(reg, opts)
	w := newWalker(reg, opts.APIName, v)
	for _, sel := range selections {
		w.selected[sel.Feature.Name] = true
	}
	for _, sel := range selections {
		w.markFeature(sel.Feature, "require")
	}
	for _, sel := range selections {
		w.markFeature(sel.Feature, "remove")
	}

	if err := v.BeginFile(reg); err != nil {
		return fmt.Errorf("registry: begin file: %w", err)
	}
	for _, sel := range selections {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("registry: walk: %w", err)
		}
		logger.Debug("registry: generate feature", "name", sel.Feature.Name, "emit", sel.Emit)

		w.emit = sel.Emit
		if err := v.BeginFeature(sel.Feature, sel.Emit); err != nil {
			return fmt.Errorf("registry: begin feature %s: %w", sel.Feature.Name, err)
		}
		if err := w.generateInterface(sel.Feature); err != nil {
			return fmt.Errorf("registry: feature %s: %w", sel.Feature.Name, err)
		}
		if err := v.EndFeature(); err != nil {
			return fmt.Errorf("registry: end feature %s: %w", sel.Feature.Name, err)
		}
	}
	if err := v.EndFile(); err != nil {
		return fmt.Errorf("registry: end file: %w", err)
	}
	logger.Debug("registry: walk complete", "features", len(selections))
	return nil
}

type entryKind int

const (
	kindType entryKind = iota
	kindEnum
	kindCmd
)

type walker struct {
	reg      *Registry
	api      string
	visitor  Visitor
	emit     bool
	selected map[string]bool
	required [3]map[string]bool
	declared [3]map[string]bool
}

func newWalker(reg *Registry, api string, v Visitor) *walker {
	w := &walker{
		reg:      reg,
		api:      api,
		visitor:  v,
		selected: make(map[string]bool),
	}
	for i := range w.required {
		w.required[i] = make(map[string]bool)
		w.declared[i] = make(map[string]bool)
	}
	return w
}

// markFeature applies the <require> or <remove> blocks of a feature. Walk
// runs every require before any remove, so a removal holds even when a later
// feature requires the entry again.
func (w *walker) markFeature(f *FeatureInfo, tag string) {
	required := tag == "require"
	for _, block := range ElementsForAPI(f.Elem, tag, w.api) {
		w.markBlock(block, required)
	}
}

func (w *walker) markBlock(block *etree.Element, required bool) {
	for _, elem := range ElementsForAPI(block, "type", w.api) {
		w.markType(elem.SelectAttrValue("name", ""), required)
	}
	for _, elem := range ElementsForAPI(block, "enum", w.api) {
		w.markEnum(elem.SelectAttrValue("name", ""), required)
	}
	for _, elem := range ElementsForAPI(block, "command", w.api) {
		w.markCmd(elem.SelectAttrValue("name", ""), required)
	}
}

func (w *walker) markType(name string, required bool) {
	info, ok := w.reg.Types[name]
	if !ok {
		return
	}
	if !required {
		delete(w.required[kindType], name)
		return
	}
	if w.required[kindType][name] {
		return
	}
	w.required[kindType][name] = true

	for _, dep := range []string{info.Requires, info.Alias} {
		if dep != "" && dep != name {
			w.markType(dep, true)
		}
	}
	for _, sub := range DescendantsForAPI(info.Elem, "type", w.api) {
		if dep := strings.TrimSpace(Text(sub)); dep != name {
			w.markType(dep, true)
		}
	}
	for _, sub := range DescendantsForAPI(info.Elem, "enum", w.api) {
		w.markEnum(strings.TrimSpace(Text(sub)), true)
	}
	if info.BitValues != "" {
		w.markType(info.BitValues, true)
	}
}

func (w *walker) markEnum(name string, required bool) {
	info, ok := w.reg.Enums[name]
	if !ok {
		return
	}
	if !required {
		delete(w.required[kindEnum], name)
		return
	}
	if w.required[kindEnum][name] {
		return
	}
	w.required[kindEnum][name] = true
	if info.Alias != "" {
		w.markEnum(info.Alias, true)
	}
}

func (w *walker) markCmd(name string, required bool) {
	info, ok := w.reg.Commands[name]
	if !ok {
		return
	}
	if !required {
		delete(w.required[kindCmd], name)
		return
	}
	if w.required[kindCmd][name] {
		return
	}
	w.required[kindCmd][name] = true
	if info.Alias != "" {
		w.markCmd(info.Alias, true)
	}
	for _, sub := range DescendantsForAPI(info.Elem, "type", w.api) {
		w.markType(strings.TrimSpace(Text(sub)), true)
	}
}

func (w *walker) generateInterface(f *FeatureInfo) error {
	for _, block := range ElementsForAPI(f.Elem, "require", w.api) {
		for _, elem := range ElementsForAPI(block, "type", w.api) {
			if err := w.generate(elem.SelectAttrValue("name", ""), kindType); err != nil {
				return err
			}
		}
		for _, elem := range ElementsForAPI(block, "enum", w.api) {
			// Extending enumerants were merged into their group while parsing.
			if elem.SelectAttrValue("extends", "") != "" {
				continue
			}
			if err := w.generate(elem.SelectAttrValue("name", ""), kindEnum); err != nil {
				return err
			}
		}
		for _, elem := range ElementsForAPI(block, "command", w.api) {
			if err := w.generate(elem.SelectAttrValue("name", ""), kindCmd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walker) generate(name string, kind entryKind) error {
	if name == "" || !w.required[kind][name] || w.declared[kind][name] {
		return nil
	}
	w.declared[kind][name] = true

	switch kind {
	case kindType:
		return w.generateType(name)
	case kindEnum:
		info, ok := w.reg.Enums[name]
		if !ok {
			return nil
		}
		if info.Alias != "" {
			if err := w.generate(info.Alias, kindEnum); err != nil {
				return err
			}
		}
		if !w.emit {
			return nil
		}
		return w.visitor.GenEnum(info, name, info.Alias)
	case kindCmd:
		info, ok := w.reg.Commands[name]
		if !ok {
			return nil
		}
		if info.Alias != "" {
			if err := w.generate(info.Alias, kindCmd); err != nil {
				return err
			}
		}
		for _, sub := range DescendantsForAPI(info.Elem, "type", w.api) {
			if err := w.generate(strings.TrimSpace(Text(sub)), kindType); err != nil {
				return err
			}
		}
		if !w.emit {
			return nil
		}
		return w.visitor.GenCmd(info, name, info.Alias)
	}
	return nil
}

func (w *walker) generateType(name string) error {
	info, ok := w.reg.Types[name]
	if !ok {
		return nil
	}
	for _, dep := range []string{info.Alias, info.Requires} {
		if dep != "" {
			if err := w.generate(dep, kindType); err != nil {
				return err
			}
		}
	}
	for _, sub := range DescendantsForAPI(info.Elem, "type", w.api) {
		if err := w.generate(strings.TrimSpace(Text(sub)), kindType); err != nil {
			return err
		}
	}
	for _, sub := range DescendantsForAPI(info.Elem, "enum", w.api) {
		if err := w.generate(strings.TrimSpace(Text(sub)), kindEnum); err != nil {
			return err
		}
	}

	if w.emit {
		if err := w.dispatchType(info, name); err != nil {
			return err
		}
	}

	if info.BitValues != "" {
		return w.generate(info.BitValues, kindType)
	}
	return nil
}

// dispatchType sends enum-category types, aliases included, to GenGroup with
// the group they resolve to. Types without a group are skipped.
func (w *walker) dispatchType(info *TypeInfo, name string) error {
	if info.Category != "enum" {
		return w.visitor.GenType(info, name, info.Alias)
	}
	group, ok := w.reg.Groups[w.resolveAlias(name)]
	if !ok {
		return nil
	}
	return w.visitor.GenGroup(w.filterGroup(group), name, info.Alias)
}

// resolveAlias follows type aliases to the defining type name.
func (w *walker) resolveAlias(name string) string {
	seen := make(map[string]bool)
	for !seen[name] {
		seen[name] = true
		info, ok := w.reg.Types[name]
		if !ok || info.Alias == "" {
			break
		}
		name = info.Alias
	}
	return name
}

// filterGroup copies a group keeping its own enumerants and those injected by
// selected features and extensions.
func (w *walker) filterGroup(group *GroupInfo) *GroupInfo {
	out := *group
	out.Enums = make([]*EnumInfo, 0, len(group.Enums))
	for _, enum := range group.Enums {
		if enum.Extends != "" && !w.selected[enum.ExtName] {
			continue
		}
		out.Enums = append(out.Enums, enum)
	}
	return &out
}

func normalizeWalkOptions(opts WalkOptions) WalkOptions {
	if opts.APIName == "" {
		opts.APIName = DefaultAPIName
	}
	return opts
}

func matches(re *regexp.Regexp, name string, whenNil bool) bool {
	if re == nil {
		return whenNil
	}
	return re.MatchString(name)
}

func containsName(list []string, name string) bool {
	for _, candidate := range list {
		if candidate == name {
			return true
		}
	}
	return false
}

// lessFeature orders by sortorder, then core versions before KHR extensions
// before other extensions, then version number, then extension number.
func lessFeature(a, b *FeatureInfo) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	if ca, cb := categoryRank(a), categoryRank(b); ca != cb {
		return ca < cb
	}
	if c := compareVersions(a.VersionParts(), b.VersionParts()); c != 0 {
		return c < 0
	}
	return a.Number < b.Number
}

func categoryRank(f *FeatureInfo) int {
	if !f.IsExtension() {
		return 0
	}
	switch extensionAuthor(f.Name) {
	case "KHR", "ARB", "OES":
		return 1
	}
	return 2
}

// extensionAuthor returns the vendor tag of an extension name such as
// VK_KHR_surface.
func extensionAuthor(name string) string {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func compareVersions(a, b []int) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// ParseSortOrder reads a sortorder attribute, defaulting to zero.
func ParseSortOrder(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
