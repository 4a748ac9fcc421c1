package viewer

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/roomview/internal/config"
)

// writeScene writes a one-triangle glTF file whose node carries one
// translation clip per name, in the given order.
func writeScene(t *testing.T, dir, name string, clips ...string) string {
	t.Helper()

	var buf bytes.Buffer
	le := binary.LittleEndian
	binary.Write(&buf, le, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	binary.Write(&buf, le, []uint16{0, 1, 2, 0})
	binary.Write(&buf, le, []float32{0, 1})

	views := []any{
		map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
		map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		map[string]any{"buffer": 0, "byteOffset": 44, "byteLength": 8},
	}
	accessors := []any{
		map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
			"min": []float32{0, 0, 0}, "max": []float32{1, 1, 0}},
		map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		map[string]any{"bufferView": 2, "componentType": 5126, "count": 2, "type": "SCALAR",
			"min": []float32{0}, "max": []float32{1}},
	}
	var animations []any
	for i, clip := range clips {
		offset := buf.Len()
		binary.Write(&buf, le, []float32{0, 0, 0, float32(i + 1), 0, 0})
		views = append(views, map[string]any{"buffer": 0, "byteOffset": offset, "byteLength": 24})
		accessors = append(accessors, map[string]any{
			"bufferView": len(views) - 1, "componentType": 5126, "count": 2, "type": "VEC3",
		})
		animations = append(animations, map[string]any{
			"name":     clip,
			"samplers": []any{map[string]any{"input": 2, "output": len(accessors) - 1}},
			"channels": []any{map[string]any{
				"sampler": 0,
				"target":  map[string]any{"node": 0, "path": "translation"},
			}},
		})
	}

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes":  []any{map[string]any{"name": "Body", "mesh": 0}},
		"meshes": []any{map[string]any{"primitives": []any{map[string]any{
			"attributes": map[string]int{"POSITION": 0},
			"indices":    1,
		}}}},
		"accessors":   accessors,
		"bufferViews": views,
		"buffers": []any{map[string]any{
			"byteLength": buf.Len(),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		}},
	}
	if len(animations) > 0 {
		doc["animations"] = animations
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(room, avatar string) *config.Config {
	cfg := config.Default()
	cfg.Scene.RoomPath = room
	cfg.Scene.AvatarPath = avatar
	return cfg
}
