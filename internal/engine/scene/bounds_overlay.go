package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
)

// noColliderColor outlines chunks that have no collision mesh yet.
var noColliderColor = [3]float32{0.5, 0.5, 0.5}

// BoundsOverlay draws the outline of every visible chunk. Chunks with a
// collision mesh are colored by the level of detail on screen.
type BoundsOverlay struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	verts   []float32
}

// NewBoundsOverlay compiles the line shader. Requires a current GL context.
func NewBoundsOverlay() (*BoundsOverlay, error) {
	program, err := shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}

	o := &BoundsOverlay{program: program}
	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	stride := int32(6 * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	return o, nil
}

// Render outlines the active surfaces of chunks.
func (o *BoundsOverlay) Render(viewProj mgl32.Mat4, chunks *ChunkRenderer) {
	o.verts = o.verts[:0]
	for _, s := range chunks.surfaces {
		if !s.active || s.vao == 0 {
			continue
		}
		color := noColliderColor
		if s.collider != nil && s.lod >= 0 && s.lod < len(lodTints) {
			color = lodTints[s.lod]
		}
		line := debug.ColumnOutline(s.bounds, s.minY, s.maxY, 0.5)
		for i := 0; i < len(line); i += 3 {
			o.verts = append(o.verts, line[i], line[i+1], line[i+2], color[0], color[1], color[2])
		}
	}
	if len(o.verts) == 0 {
		return
	}

	o.program.Use()
	gl.UniformMatrix4fv(o.program.Uniform("uViewProj"), 1, false, &viewProj[0])

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(o.verts)*4, unsafe.Pointer(&o.verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(o.verts)/6))
	gl.BindVertexArray(0)
}

// Destroy releases GPU resources.
func (o *BoundsOverlay) Destroy() {
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteBuffers(1, &o.vbo)
	o.program.Delete()
}
