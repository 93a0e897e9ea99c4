package domain

// KindSpec describes the field contract of a content kind
type KindSpec struct {
	Kind Kind
	// PathSegment is the collection segment in the HTTP API
	PathSegment string
	Categories  []string
	// DefaultCategory is applied when a draft omits the category
	DefaultCategory string
	HasExcerpt      bool
	HasImage        bool
	Searchable      bool
	KeyedByType     bool
}

var kindSpecs = map[Kind]KindSpec{
	KindNotice: {
		Kind:        KindNotice,
		PathSegment: "notices",
		Categories:  []string{"일반", "학사", "입학", "행사"},
		HasExcerpt:  true,
		Searchable:  true,
	},
	KindGallery: {
		Kind:        KindGallery,
		PathSegment: "gallery",
		Categories:  []string{"행사", "작품", "수업", "기타"},
		HasImage:    true,
		Searchable:  true,
	},
	KindRoadmap: {
		Kind:            KindRoadmap,
		PathSegment:     "roadmaps",
		Categories:      []string{"로드맵"},
		DefaultCategory: "로드맵",
		KeyedByType:     true,
	},
	KindAdmission: {
		Kind:        KindAdmission,
		PathSegment: "admissions",
		Categories:  []string{"국어", "영어", "수학", "과학", "사회", "기타"},
		HasExcerpt:  true,
		Searchable:  true,
	},
}

// AllKinds lists the kinds in a stable order
var AllKinds = []Kind{KindNotice, KindGallery, KindRoadmap, KindAdmission}

// SpecFor returns the contract of a kind
func SpecFor(kind Kind) (KindSpec, bool) {
	spec, ok := kindSpecs[kind]
	return spec, ok
}

// ParseKind accepts either the kind name ("notice") or its path segment ("notices")
func ParseKind(s string) (Kind, bool) {
	for _, spec := range kindSpecs {
		if string(spec.Kind) == s || spec.PathSegment == s {
			return spec.Kind, true
		}
	}
	return "", false
}

// AllowsCategory reports whether category is a storable member of the kind's category set
func (s KindSpec) AllowsCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}
