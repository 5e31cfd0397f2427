package registry

// Visitor receives registry entries from Walk. Entries arrive grouped by
// feature, each feature bracketed by BeginFeature and EndFeature, and the
// whole traversal bracketed by BeginFile and EndFile. Gen* methods receive
// the entry, its name and the alias target ("" for non-aliases).
//
// Returning an error aborts the walk.
type Visitor interface {
	BeginFile(reg *Registry) error
	EndFile() error
	BeginFeature(feature *FeatureInfo, emit bool) error
	EndFeature() error
	GenType(info *TypeInfo, name, alias string) error
	GenGroup(info *GroupInfo, name, alias string) error
	GenEnum(info *EnumInfo, name, alias string) error
	GenCmd(info *CmdInfo, name, alias string) error
}
