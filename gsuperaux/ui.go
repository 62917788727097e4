//go:build !tinygo && cgo

package gsuperaux

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.1-core/glgl"
	"github.com/soypat/gsuper/anim"
)

const vertexShader = `#version 410
in vec3 aPos;
in vec3 aNormal;
uniform mat4 uModel;
uniform mat4 uProj;
out vec3 vPos;
out vec3 vNormal;
void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uProj * world;
}
` + "\x00"

// Camera sits at the origin with the point light.
const fragmentShader = `#version 410
in vec3 vPos;
in vec3 vNormal;
out vec4 fragColor;
uniform vec3 uAmbient;
uniform vec3 uLight;
void main() {
	vec3 n = normalize(vNormal);
	vec3 toCam = normalize(-vPos);
	if (dot(n, toCam) < 0.0) {
		n = -n;
	}
	float dif = max(dot(n, toCam), 0.0);
	vec3 col = uAmbient + uLight * dif;
	fragColor = vec4(sqrt(clamp(col, 0.0, 1.0)), 1.0);
}
` + "\x00"

func ui(cfg UIConfig) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	log := Logger()
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scene, err := anim.NewScene(cfg.Config.SceneConfig())
	if err != nil {
		return err
	}
	var reloads <-chan Config
	if cfg.ConfigPath != "" {
		reloads, err = watchConfig(ctx, cfg.ConfigPath)
		if err != nil {
			return err
		}
	}

	window, terminate, err := glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "gsuper supershape viewer",
		Version: [2]int{4, 1},
		Width:   cfg.Width,
		Height:  cfg.Height,
	})
	if err != nil {
		return err
	}
	defer terminate()

	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexShader,
		Fragment: fragmentShader,
	})
	if err != nil {
		return fmt.Errorf("compiling viewer shaders: %w", err)
	}
	defer prog.Delete()
	prog.Bind()

	modelUniform, err := prog.UniformLocation("uModel\x00")
	if err != nil {
		return err
	}
	projUniform, err := prog.UniformLocation("uProj\x00")
	if err != nil {
		return err
	}
	ambientUniform, err := prog.UniformLocation("uAmbient\x00")
	if err != nil {
		return err
	}
	lightUniform, err := prog.UniformLocation("uLight\x00")
	if err != nil {
		return err
	}
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	normAttrib, err := prog.AttribLocation("aNormal\x00")
	if err != nil {
		return err
	}

	mesh := scene.Mesh()
	indices := make([]uint32, 0, 3*len(mesh.Faces))
	for _, f := range mesh.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.DeleteVertexArrays(1, &vao)
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	defer gl.DeleteBuffers(1, &ebo)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	defer gl.DeleteBuffers(1, &vbo)
	// Interleaved position and normal.
	const stride = 6 * 4
	vertexData := make([]float32, 6*len(mesh.Vertices))
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertexData), nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointerWithOffset(posAttrib, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(normAttrib)
	gl.VertexAttribPointerWithOffset(normAttrib, 3, gl.FLOAT, false, stride, 3*4)
	err = glgl.Err()
	if err != nil {
		return fmt.Errorf("setting up vertex buffers: %w", err)
	}

	ic := cfg.Config.ImageConfig()
	ambient := ic.Ambient
	light := ic.Point
	gl.Uniform3f(ambientUniform, ambient.Color.X*ambient.Intensity, ambient.Color.Y*ambient.Intensity, ambient.Color.Z*ambient.Intensity)
	gl.Uniform3f(lightUniform, light.Color.X*light.Intensity, light.Color.Y*light.Intensity, light.Color.Z*light.Intensity)
	gl.Enable(gl.DEPTH_TEST)
	bg := ic.Background
	r, g, b, _ := bg.RGBA()
	gl.ClearColor(float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff, 1)

	var stats FrameStats
	frameDur := cfg.Config.FrameDuration()
	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()
	lastTitle := time.Now()
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case newCfg, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			if newCfg.Scene != cfg.Config.Scene {
				log.Warn("scene section changes require a restart")
			}
			scene.SetSchedule(newCfg.Schedule)
			scene.SetMotion(newCfg.Motion)
			log.Info("reloaded config", "path", cfg.ConfigPath)
			continue
		case <-ticker.C:
		}
		frameWatch := stopwatch()
		err = scene.Update(frameDur)
		if err != nil {
			return err
		}
		for i, v := range mesh.Vertices {
			n := mesh.Normals[i]
			vd := vertexData[6*i : 6*i+6]
			vd[0], vd[1], vd[2] = v.X, v.Y, v.Z
			vd[3], vd[4], vd[5] = n.X, n.Y, n.Z
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, 4*len(vertexData), gl.Ptr(vertexData))

		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		proj := perspectiveMatrix(ic.Camera.FOV, float32(width)/float32(max(height, 1)), ic.Camera.Near, ic.Camera.Far)
		model := modelMatrix(scene.Transform())
		gl.UniformMatrix4fv(projUniform, 1, false, &proj[0])
		gl.UniformMatrix4fv(modelUniform, 1, false, &model[0])
		gl.BindVertexArray(vao)
		gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_INT, nil)
		window.SwapBuffers()
		glfw.PollEvents()
		stats.Record(frameWatch())
		if time.Since(lastTitle) > time.Second {
			window.SetTitle("gsuper " + stats.String())
			lastTitle = time.Now()
		}
	}
	return nil
}
