// Package scene renders streamed terrain chunks with OpenGL.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/streaming"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// lodTints colors chunks by decimation level when tinting is on.
var lodTints = [terrain.NumSupportedLODs][3]float32{
	{1.0, 0.2, 0.2},
	{1.0, 0.8, 0.2},
	{0.2, 1.0, 0.3},
	{0.2, 0.6, 1.0},
	{0.7, 0.3, 1.0},
}

// Config controls terrain shading.
type Config struct {
	MinHeight float32 // Height mapped to the bottom of the color ramp
	MaxHeight float32
	FogNear   float32
	FogFar    float32
	FogColor  [3]float32
	LightDir  [3]float32
	TintLODs  bool
}

// ChunkRenderer owns the GPU side of every chunk surface.
type ChunkRenderer struct {
	program  *shader.Program
	config   Config
	surfaces map[streaming.Coord]*ChunkSurface
	log      *zap.Logger

	uploads   int
	drawn     int
	triangles int
}

// NewChunkRenderer compiles the terrain shader. Requires a current GL context.
func NewChunkRenderer(cfg Config) (*ChunkRenderer, error) {
	program, err := shader.NewProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	return &ChunkRenderer{
		program:  program,
		config:   cfg,
		surfaces: make(map[streaming.Coord]*ChunkSurface),
		log:      logger.Named("scene"),
	}, nil
}

// NewSurface creates the surface of a chunk. It has the shape of a
// streaming.SurfaceFactory.
func (r *ChunkRenderer) NewSurface(coord streaming.Coord, bounds math.Rect) streaming.Surface {
	s := &ChunkSurface{
		renderer: r,
		coord:    coord,
		bounds:   bounds,
		lod:      -1,
	}
	r.surfaces[coord] = s
	return s
}

// SetConfig replaces the shading configuration.
func (r *ChunkRenderer) SetConfig(cfg Config) {
	r.config = cfg
}

// Config returns the shading configuration.
func (r *ChunkRenderer) Config() Config {
	return r.config
}

// Render draws every active surface that has a mesh.
func (r *ChunkRenderer) Render(viewProj mgl32.Mat4, cameraPos mgl32.Vec3) {
	r.drawn, r.triangles = 0, 0

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, &viewProj[0])
	gl.Uniform3f(r.program.Uniform("uCameraPos"), cameraPos[0], cameraPos[1], cameraPos[2])
	l := r.config.LightDir
	gl.Uniform3f(r.program.Uniform("uLightDir"), l[0], l[1], l[2])
	gl.Uniform1f(r.program.Uniform("uMinHeight"), r.config.MinHeight)
	gl.Uniform1f(r.program.Uniform("uMaxHeight"), r.config.MaxHeight)
	gl.Uniform1f(r.program.Uniform("uFogNear"), r.config.FogNear)
	gl.Uniform1f(r.program.Uniform("uFogFar"), r.config.FogFar)
	f := r.config.FogColor
	gl.Uniform3f(r.program.Uniform("uFogColor"), f[0], f[1], f[2])
	tint := int32(0)
	if r.config.TintLODs {
		tint = 1
	}
	gl.Uniform1i(r.program.Uniform("uLODTint"), tint)

	locOffset := r.program.Uniform("uOffset")
	locTint := r.program.Uniform("uTint")

	for _, s := range r.surfaces {
		if !s.active || s.vao == 0 {
			continue
		}
		gl.Uniform3f(locOffset, s.bounds.Center.X, 0, s.bounds.Center.Y)
		if s.lod >= 0 && s.lod < len(lodTints) {
			c := lodTints[s.lod]
			gl.Uniform3f(locTint, c[0], c[1], c[2])
		}
		gl.BindVertexArray(s.vao)
		gl.DrawElements(gl.TRIANGLES, s.indexCount, gl.UNSIGNED_INT, nil)
		r.drawn++
		r.triangles += int(s.indexCount) / 3
	}
	gl.BindVertexArray(0)
}

// GroundHeight samples the collision mesh of the active chunk under p.
func (r *ChunkRenderer) GroundHeight(p math.Vec2) (float32, bool) {
	for _, s := range r.surfaces {
		if !s.active || s.collider == nil || !s.bounds.Contains(p) {
			continue
		}
		local := p.Sub(s.bounds.Center)
		if h, ok := s.collider.HeightAt(local.X, local.Y); ok {
			return h, true
		}
	}
	return 0, false
}

// FrameStats returns what the last Render drew.
func (r *ChunkRenderer) FrameStats() (chunks, triangles int) {
	return r.drawn, r.triangles
}

// Uploads returns the number of mesh uploads so far.
func (r *ChunkRenderer) Uploads() int {
	return r.uploads
}

// Destroy releases every surface and the shader.
func (r *ChunkRenderer) Destroy() {
	for _, s := range r.surfaces {
		s.Release()
	}
	r.program.Delete()
}

// ChunkSurface holds the GPU buffers of one chunk.
type ChunkSurface struct {
	renderer *ChunkRenderer
	coord    streaming.Coord
	bounds   math.Rect

	vao, vbo, ebo uint32
	indexCount    int32
	lod           int
	minY, maxY    float32

	collider *terrain.Mesh
	active   bool
}

// SetMesh uploads mesh, replacing the previous one.
func (s *ChunkSurface) SetMesh(mesh *terrain.Mesh) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return
	}

	if s.vao == 0 {
		gl.GenVertexArrays(1, &s.vao)
		gl.GenBuffers(1, &s.vbo)
		gl.GenBuffers(1, &s.ebo)
	}
	gl.BindVertexArray(s.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	s.indexCount = int32(len(mesh.Indices))
	s.lod = mesh.LOD
	s.minY, s.maxY = mesh.Bounds.Min[1], mesh.Bounds.Max[1]
	s.renderer.uploads++
	s.renderer.log.Debug("chunk mesh uploaded",
		zap.Stringer("chunk", s.coord),
		zap.Int("lod", mesh.LOD),
		zap.Int("triangles", mesh.TriangleCount()))
}

// SetCollider stores the collision mesh used for ground queries.
func (s *ChunkSurface) SetCollider(mesh *terrain.Mesh) {
	s.collider = mesh
}

// SetActive shows or hides the chunk.
func (s *ChunkSurface) SetActive(active bool) {
	s.active = active
}

// Release frees the GPU buffers and forgets the surface.
func (s *ChunkSurface) Release() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		gl.DeleteBuffers(1, &s.vbo)
		gl.DeleteBuffers(1, &s.ebo)
		s.vao, s.vbo, s.ebo = 0, 0, 0
	}
	s.active = false
	s.collider = nil
	if s.renderer.surfaces[s.coord] == s {
		delete(s.renderer.surfaces, s.coord)
	}
}
