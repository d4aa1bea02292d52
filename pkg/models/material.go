package models

import "errors"

// Material ties a scene material identifier to the diffuse texture a mesh
// should bind. It is only consulted while loading.
type Material struct {
	Name               string
	ID                 string
	DiffuseTextureName string // Empty when the material has no texture
}

// ErrInvalidScene is wrapped by every scene schema violation a loader reports.
var ErrInvalidScene = errors.New("invalid scene")
