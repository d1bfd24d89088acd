package render

// TextureID is a stable handle into a TextureTable. Faces carry handles
// instead of texture pointers so mesh data stays plain, and a missing
// texture degrades to untextured rendering instead of a crash.
//
// Handles start at 1; the zero value is NoTexture, so a zero-value Face
// renders untextured.
type TextureID int32

// NoTexture marks a face that renders untextured.
const NoTexture TextureID = 0

// TextureTable owns the textures a scene draws with and hands out
// handles. Handles are never invalidated by later Adds.
type TextureTable struct {
	textures []*Texture
	names    map[string]TextureID
}

// NewTextureTable returns an empty table.
func NewTextureTable() *TextureTable {
	return &TextureTable{
		names: make(map[string]TextureID),
	}
}

// Add registers a texture and returns its handle. Adding nil returns
// NoTexture.
func (t *TextureTable) Add(tex *Texture) TextureID {
	if tex == nil {
		return NoTexture
	}
	t.textures = append(t.textures, tex)
	return TextureID(len(t.textures))
}

// AddNamed registers a texture under a lookup name. Re-adding an existing
// name swaps the texture behind the original handle, so faces that
// already reference it pick up the new image.
func (t *TextureTable) AddNamed(name string, tex *Texture) TextureID {
	if tex == nil {
		return NoTexture
	}
	if id, ok := t.names[name]; ok {
		t.textures[id-1] = tex
		return id
	}
	id := t.Add(tex)
	t.names[name] = id
	return id
}

// IDByName returns the handle registered under name, or NoTexture.
func (t *TextureTable) IDByName(name string) TextureID {
	if id, ok := t.names[name]; ok {
		return id
	}
	return NoTexture
}

// Resolve returns the texture behind a handle, or nil when the handle is
// NoTexture or out of range. Callers treat nil as "render untextured".
func (t *TextureTable) Resolve(id TextureID) *Texture {
	if t == nil || id <= 0 || int(id) > len(t.textures) {
		return nil
	}
	return t.textures[id-1]
}

// Len returns the number of registered textures.
func (t *TextureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.textures)
}
