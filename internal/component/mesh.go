package component

// Mesh references a mesh resource by path. Asset stays nil until the async
// load resolves; an entity with an unresolved mesh is valid and renders as
// empty. Err holds the load failure, if any.
// Request identifies the load that will resolve this mesh; a completed load
// carrying another number is stale and ignored.
type Mesh struct {
	Path    string
	Asset   any
	Err     error
	Request uint64
}

func (m Mesh) Resolved() bool { return m.Asset != nil }
