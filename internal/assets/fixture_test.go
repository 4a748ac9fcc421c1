package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// fixture builds a one-triangle scene with two translation clips, "Walk"
// then "Idle", targeting node "Body".
type fixture struct {
	bin  []byte
	json map[string]any
}

func floats(buf *bytes.Buffer, v ...float32) {
	for _, f := range v {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(f))
	}
}

func newFixture() *fixture {
	var buf bytes.Buffer
	floats(&buf, 0, 0, 0, 1, 0, 0, 0, 1, 0) // positions, 36 bytes
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2, 0})
	floats(&buf, 0, 1)             // times @44
	floats(&buf, 0, 0, 0, 2, 0, 0) // walk @52
	floats(&buf, 0, 0, 0, 0, 1, 0) // idle @76

	view := func(offset, length int) map[string]any {
		return map[string]any{"buffer": 0, "byteOffset": offset, "byteLength": length}
	}
	clip := func(name string, output int) map[string]any {
		return map[string]any{
			"name":     name,
			"samplers": []any{map[string]any{"input": 2, "output": output}},
			"channels": []any{map[string]any{
				"sampler": 0,
				"target":  map[string]any{"node": 0, "path": "translation"},
			}},
		}
	}

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes": []any{map[string]any{
			"name":        "Body",
			"mesh":        0,
			"translation": []float32{1, 0, 0},
		}},
		"meshes": []any{map[string]any{
			"name": "Tri",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
			}},
		}},
		"animations": []any{clip("Walk", 3), clip("Idle", 4)},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
				"min": []float32{0, 0, 0}, "max": []float32{1, 1, 0}},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
			map[string]any{"bufferView": 2, "componentType": 5126, "count": 2, "type": "SCALAR",
				"min": []float32{0}, "max": []float32{1}},
			map[string]any{"bufferView": 3, "componentType": 5126, "count": 2, "type": "VEC3"},
			map[string]any{"bufferView": 4, "componentType": 5126, "count": 2, "type": "VEC3"},
		},
		"bufferViews": []any{view(0, 36), view(36, 6), view(44, 8), view(52, 24), view(76, 24)},
	}
	return &fixture{bin: buf.Bytes(), json: doc}
}

// withSkin adds a skin over n joint nodes, each parented to "Body".
func (f *fixture) withSkin(n int) *fixture {
	nodes := f.json["nodes"].([]any)
	body := nodes[0].(map[string]any)
	joints := make([]int, n)
	children := make([]int, n)
	for i := range n {
		joints[i] = len(nodes)
		children[i] = len(nodes)
		nodes = append(nodes, map[string]any{"name": fmt.Sprintf("Joint%d", i)})
	}
	body["children"] = children
	f.json["nodes"] = nodes
	f.json["skins"] = []any{map[string]any{"name": "Armature", "joints": joints}}
	return f
}

// writeGLTF writes the fixture as a text document with an embedded buffer.
func (f *fixture) writeGLTF(t *testing.T, dir, name string) string {
	t.Helper()
	f.json["buffers"] = []any{map[string]any{
		"byteLength": len(f.bin),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(f.bin),
	}}
	data, err := json.Marshal(f.json)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeGLB writes the fixture as a binary container.
func (f *fixture) writeGLB(t *testing.T, dir, name string) string {
	t.Helper()
	f.json["buffers"] = []any{map[string]any{"byteLength": len(f.bin)}}
	js, err := json.Marshal(f.json)
	if err != nil {
		t.Fatal(err)
	}
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	bin := append([]byte(nil), f.bin...)
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	binary.Write(&out, binary.LittleEndian, []uint32{0x46546C67, 2, uint32(total)})
	binary.Write(&out, binary.LittleEndian, []uint32{uint32(len(js)), 0x4E4F534A})
	out.Write(js)
	binary.Write(&out, binary.LittleEndian, []uint32{uint32(len(bin)), 0x004E4942})
	out.Write(bin)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
