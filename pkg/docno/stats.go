package docno

// PageKind classifies a source page. Classification happens upstream.
type PageKind int

const (
	Article PageKind = iota
	Redirect
	Disambiguation
	Empty
	Stub // an article that is also a stub
)

func (k PageKind) String() string {
	switch k {
	case Article:
		return "article"
	case Redirect:
		return "redirect"
	case Disambiguation:
		return "disambiguation"
	case Empty:
		return "empty"
	case Stub:
		return "stub"
	default:
		return "unknown"
	}
}

// Stats counts pages by kind. Stubs count as articles too.
type Stats struct {
	Total          int64
	Redirect       int64
	Disambiguation int64
	Empty          int64
	Article        int64
	Stub           int64
}

func (s *Stats) add(kind PageKind) {
	s.Total++
	switch kind {
	case Redirect:
		s.Redirect++
	case Disambiguation:
		s.Disambiguation++
	case Empty:
		s.Empty++
	case Stub:
		s.Article++
		s.Stub++
	default:
		s.Article++
	}
}
