package assets

import (
	"context"
	"fmt"
	"image"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/roomview/internal/engine/animation"
	"github.com/Faultbox/roomview/internal/engine/scenegraph"
)

// decoder converts one glTF document into scene graph types.
type decoder struct {
	doc *gltf.Document
	dir string

	nodes     []*scenegraph.Node
	meshes    []*scenegraph.Mesh
	materials []*scenegraph.Material
	skins     []*scenegraph.Skin
	images    []*image.RGBA
}

// report is called with a fraction of the build phase completed.
type report func(fraction float32)

func newDecoder(doc *gltf.Document, dir string) *decoder {
	return &decoder{doc: doc, dir: dir}
}

// build produces the asset. Images are decoded concurrently.
func (d *decoder) build(ctx context.Context, locator string, progress report) (*SceneAsset, error) {
	if len(d.doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIdx := 0
	if d.doc.Scene != nil {
		sceneIdx = int(*d.doc.Scene)
	}
	if sceneIdx < 0 || sceneIdx >= len(d.doc.Scenes) {
		return nil, fmt.Errorf("%w: scene index %d out of range", ErrNoScene, sceneIdx)
	}

	if err := d.decodeImages(ctx, progress); err != nil {
		return nil, err
	}
	d.buildMaterials()

	meshes, err := d.buildMeshes()
	if err != nil {
		return nil, err
	}
	d.meshes = meshes
	progress(0.8)

	d.buildNodes()
	if err := d.buildSkins(); err != nil {
		return nil, err
	}
	clips, err := d.buildClips()
	if err != nil {
		return nil, err
	}
	progress(0.95)

	scene := d.doc.Scenes[sceneIdx]
	root := scenegraph.NewNode(filepath.Base(locator))
	for _, ni := range scene.Nodes {
		if int(ni) < len(d.nodes) {
			root.AddChild(d.nodes[ni])
		}
	}

	return &SceneAsset{
		Locator:   locator,
		Root:      root,
		Clips:     clips,
		Meshes:    d.meshes,
		Materials: d.materials,
		Skins:     d.skins,
	}, nil
}

func (d *decoder) buildMaterials() {
	d.materials = make([]*scenegraph.Material, len(d.doc.Materials))
	for i, m := range d.doc.Materials {
		mat := &scenegraph.Material{
			Name:        m.Name,
			BaseColor:   [4]float32{1, 1, 1, 1},
			DoubleSided: m.DoubleSided,
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if f := pbr.BaseColorFactor; f != nil {
				mat.BaseColor = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
			}
			if ti := pbr.BaseColorTexture; ti != nil {
				mat.BaseTexture = d.textureImage(int(ti.Index))
			}
		}
		d.materials[i] = mat
	}
}

func (d *decoder) textureImage(texture int) *image.RGBA {
	if texture < 0 || texture >= len(d.doc.Textures) {
		return nil
	}
	src := d.doc.Textures[texture].Source
	if src == nil || int(*src) >= len(d.images) {
		return nil
	}
	return d.images[*src]
}

// decodeImages reads every image in the document. Images that fail to decode
// are left nil and the material falls back to its base color.
func (d *decoder) decodeImages(ctx context.Context, progress report) error {
	d.images = make([]*image.RGBA, len(d.doc.Images))
	if len(d.doc.Images) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	done := make(chan struct{}, len(d.doc.Images))
	for i, img := range d.doc.Images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := d.imageBytes(img)
			if err == nil {
				d.images[i], err = decodeImage(data)
			}
			if err != nil {
				log().Warn("image skipped", zap.Int("image", i), zap.String("name", img.Name), zap.Error(err))
			}
			done <- struct{}{}
			return nil
		})
	}

	total := float32(len(d.doc.Images))
	go func() {
		for n := 1; n <= len(d.doc.Images); n++ {
			if _, ok := <-done; !ok {
				return
			}
			progress(0.7 * float32(n) / total)
		}
	}()
	err := g.Wait()
	close(done)
	return err
}

func (d *decoder) imageBytes(img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		return d.bufferViewBytes(int(*img.BufferView))
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image has no source")
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	name, err := url.PathUnescape(img.URI)
	if err != nil {
		name = img.URI
	}
	return os.ReadFile(filepath.Join(d.dir, filepath.FromSlash(name)))
}

func (d *decoder) bufferViewBytes(index int) ([]byte, error) {
	if index < 0 || index >= len(d.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", index)
	}
	bv := d.doc.BufferViews[index]
	if int(bv.Buffer) >= len(d.doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	data := d.doc.Buffers[bv.Buffer].Data
	start, end := int(bv.ByteOffset), int(bv.ByteOffset)+int(bv.ByteLength)
	if end > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds buffer length", index)
	}
	return data[start:end], nil
}

func (d *decoder) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(d.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	return d.doc.Accessors[index], nil
}

func (d *decoder) buildMeshes() ([]*scenegraph.Mesh, error) {
	meshes := make([]*scenegraph.Mesh, len(d.doc.Meshes))
	for mi, m := range d.doc.Meshes {
		mesh := &scenegraph.Mesh{Name: m.Name}
		for pi, p := range m.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				continue
			}
			prim, err := d.buildPrimitive(p)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			if prim != nil {
				mesh.Primitives = append(mesh.Primitives, prim)
			}
		}
		meshes[mi] = mesh
	}
	return meshes, nil
}

func (d *decoder) buildPrimitive(p *gltf.Primitive) (*scenegraph.Primitive, error) {
	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return nil, nil
	}
	acr, err := d.accessor(int(posIdx))
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(d.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	verts := make([]scenegraph.Vertex, len(positions))
	for i, pos := range positions {
		verts[i].Position = pos
	}

	hasNormals := false
	if idx, ok := p.Attributes["NORMAL"]; ok {
		if acr, err := d.accessor(int(idx)); err == nil {
			normals, err := modeler.ReadNormal(d.doc, acr, nil)
			if err != nil {
				return nil, fmt.Errorf("reading normals: %w", err)
			}
			for i := 0; i < len(normals) && i < len(verts); i++ {
				verts[i].Normal = normals[i]
			}
			hasNormals = true
		}
	}

	if idx, ok := p.Attributes["TEXCOORD_0"]; ok {
		if acr, err := d.accessor(int(idx)); err == nil {
			uvs, err := modeler.ReadTextureCoord(d.doc, acr, nil)
			if err != nil {
				return nil, fmt.Errorf("reading texcoords: %w", err)
			}
			for i := 0; i < len(uvs) && i < len(verts); i++ {
				verts[i].TexCoord = uvs[i]
			}
		}
	}

	skinned, err := d.readSkinAttributes(p, verts)
	if err != nil {
		return nil, err
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := d.accessor(int(*p.Indices))
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(d.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, ix := range indices {
		if int(ix) >= len(verts) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", ix, len(verts))
		}
	}

	if !hasNormals {
		computeNormals(verts, indices)
	}

	mat := scenegraph.DefaultMaterial
	if p.Material != nil && int(*p.Material) < len(d.materials) {
		mat = d.materials[*p.Material]
	}

	return &scenegraph.Primitive{
		Vertices: verts,
		Indices:  indices,
		Material: mat,
		Skinned:  skinned,
	}, nil
}

func (d *decoder) readSkinAttributes(p *gltf.Primitive, verts []scenegraph.Vertex) (bool, error) {
	ji, okJ := p.Attributes["JOINTS_0"]
	wi, okW := p.Attributes["WEIGHTS_0"]
	if !okJ || !okW {
		return false, nil
	}
	jacr, err := d.accessor(int(ji))
	if err != nil {
		return false, err
	}
	wacr, err := d.accessor(int(wi))
	if err != nil {
		return false, err
	}
	joints, err := modeler.ReadJoints(d.doc, jacr, nil)
	if err != nil {
		return false, fmt.Errorf("reading joints: %w", err)
	}
	weights, err := modeler.ReadWeights(d.doc, wacr, nil)
	if err != nil {
		return false, fmt.Errorf("reading weights: %w", err)
	}
	for i := 0; i < len(verts) && i < len(joints) && i < len(weights); i++ {
		w := weights[i]
		sum := w[0] + w[1] + w[2] + w[3]
		if sum <= 0 {
			w = [4]float32{1, 0, 0, 0}
			sum = 1
		}
		for k := 0; k < 4; k++ {
			verts[i].Joints[k] = float32(joints[i][k])
			verts[i].Weights[k] = w[k] / sum
		}
	}
	return true, nil
}

// computeNormals fills smooth vertex normals from triangle faces.
func computeNormals(verts []scenegraph.Vertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(verts))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		pa, pb, pc := mgl32.Vec3(verts[a].Position), mgl32.Vec3(verts[b].Position), mgl32.Vec3(verts[c].Position)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}
	for i, n := range acc {
		if n.Len() > 0 {
			verts[i].Normal = n.Normalize()
		} else {
			verts[i].Normal = [3]float32{0, 1, 0}
		}
	}
}

func (d *decoder) buildNodes() {
	d.nodes = make([]*scenegraph.Node, len(d.doc.Nodes))
	for i, gn := range d.doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node%d", i)
		}
		n := scenegraph.NewNode(name)
		setTransform(n, gn)
		if gn.Mesh != nil && int(*gn.Mesh) < len(d.meshes) {
			n.Mesh = d.meshes[*gn.Mesh]
		}
		d.nodes[i] = n
	}
	for i, gn := range d.doc.Nodes {
		for _, ci := range gn.Children {
			if int(ci) < len(d.nodes) && int(ci) != i {
				d.nodes[i].AddChild(d.nodes[ci])
			}
		}
	}
}

func setTransform(n *scenegraph.Node, gn *gltf.Node) {
	m := gn.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i := range m {
			mat[i] = float32(m[i])
		}
		n.Translation, n.Rotation, n.Scale = decompose(mat)
		return
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize()
	n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// decompose splits an affine matrix without shear into TRS.
func decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	s := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if c0.Cross(c1).Dot(c2) < 0 {
		s[0] = -s[0]
	}
	for i := range s {
		if s[i] == 0 {
			return t, mgl32.QuatIdent(), s
		}
	}
	rot := mgl32.Mat4FromCols(
		c0.Mul(1/s[0]).Vec4(0),
		c1.Mul(1/s[1]).Vec4(0),
		c2.Mul(1/s[2]).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	return t, mgl32.Mat4ToQuat(rot).Normalize(), s
}

func (d *decoder) buildSkins() error {
	d.skins = make([]*scenegraph.Skin, len(d.doc.Skins))
	for si, gs := range d.doc.Skins {
		skin := &scenegraph.Skin{}
		for _, ji := range gs.Joints {
			if int(ji) >= len(d.nodes) {
				return fmt.Errorf("skin %d: joint %d out of range", si, ji)
			}
			skin.Joints = append(skin.Joints, d.nodes[ji])
		}
		if len(skin.Joints) > scenegraph.MaxJoints {
			return fmt.Errorf("skin %d (%s): %w: %d joints, palette holds %d",
				si, gs.Name, ErrTooManyJoints, len(skin.Joints), scenegraph.MaxJoints)
		}
		if gs.InverseBindMatrices != nil {
			acr, err := d.accessor(int(*gs.InverseBindMatrices))
			if err != nil {
				return fmt.Errorf("skin %d: %w", si, err)
			}
			data, err := modeler.ReadAccessor(d.doc, acr, nil)
			if err != nil {
				return fmt.Errorf("skin %d: reading inverse bind matrices: %w", si, err)
			}
			mats, ok := data.([][4][4]float32)
			if !ok {
				return fmt.Errorf("skin %d: inverse bind matrices are %T", si, data)
			}
			for _, cols := range mats {
				var m mgl32.Mat4
				for c := 0; c < 4; c++ {
					for r := 0; r < 4; r++ {
						m[c*4+r] = cols[c][r]
					}
				}
				skin.InverseBindMatrices = append(skin.InverseBindMatrices, m)
			}
		}
		d.skins[si] = skin
	}

	for i, gn := range d.doc.Nodes {
		if gn.Skin != nil && int(*gn.Skin) < len(d.skins) {
			d.nodes[i].Skin = d.skins[*gn.Skin]
		}
	}
	return nil
}

func (d *decoder) buildClips() ([]*animation.Clip, error) {
	clips := make([]*animation.Clip, 0, len(d.doc.Animations))
	for ai, ga := range d.doc.Animations {
		name := ga.Name
		if name == "" {
			name = fmt.Sprintf("animation%d", ai)
		}
		var channels []*animation.Channel
		for ci, gc := range ga.Channels {
			ch, err := d.buildChannel(ga, gc)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", name, ci, err)
			}
			if ch != nil {
				channels = append(channels, ch)
			}
		}
		clips = append(clips, animation.NewClip(name, channels))
	}
	return clips, nil
}

func (d *decoder) buildChannel(ga *gltf.Animation, gc *gltf.Channel) (*animation.Channel, error) {
	if gc.Target.Node == nil || int(*gc.Target.Node) >= len(d.nodes) {
		return nil, nil
	}
	var path animation.Path
	switch gc.Target.Path {
	case gltf.TRSTranslation:
		path = animation.PathTranslation
	case gltf.TRSRotation:
		path = animation.PathRotation
	case gltf.TRSScale:
		path = animation.PathScale
	default:
		// morph weights are not supported
		return nil, nil
	}

	if gc.Sampler == nil {
		return nil, fmt.Errorf("channel has no sampler")
	}
	si := int(*gc.Sampler)
	if si >= len(ga.Samplers) {
		return nil, fmt.Errorf("sampler %d out of range", si)
	}
	s := ga.Samplers[si]

	in, err := d.accessor(int(s.Input))
	if err != nil {
		return nil, err
	}
	rawTimes, err := modeler.ReadAccessor(d.doc, in, nil)
	if err != nil {
		return nil, fmt.Errorf("reading keyframe times: %w", err)
	}
	times, ok := rawTimes.([]float32)
	if !ok {
		return nil, fmt.Errorf("keyframe times are %T", rawTimes)
	}

	out, err := d.accessor(int(s.Output))
	if err != nil {
		return nil, err
	}
	rawValues, err := modeler.ReadAccessor(d.doc, out, nil)
	if err != nil {
		return nil, fmt.Errorf("reading keyframe values: %w", err)
	}
	values, err := flatten(rawValues)
	if err != nil {
		return nil, err
	}

	interp := animation.InterpolationLinear
	switch s.Interpolation {
	case gltf.InterpolationStep:
		interp = animation.InterpolationStep
	case gltf.InterpolationCubicSpline:
		interp = animation.InterpolationCubicSpline
	}

	want := len(times) * path.Components()
	if interp == animation.InterpolationCubicSpline {
		want *= 3
	}
	if len(values) < want {
		return nil, fmt.Errorf("%s channel has %d values, want %d", path, len(values), want)
	}

	return &animation.Channel{
		Target:        d.nodes[*gc.Target.Node],
		Path:          path,
		Interpolation: interp,
		Times:         times,
		Values:        values[:want],
	}, nil
}

// flatten converts keyframe output data to floats, undoing integer
// normalization for quantized rotations.
func flatten(data any) ([]float32, error) {
	switch v := data.(type) {
	case [][3]float32:
		out := make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4]float32:
		out := make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[:]...)
		}
		return out, nil
	case [][4]int8:
		return normalized(v, func(x int8) float32 { return float32(math.Max(float64(x)/127, -1)) }), nil
	case [][4]uint8:
		return normalized(v, func(x uint8) float32 { return float32(x) / 255 }), nil
	case [][4]int16:
		return normalized(v, func(x int16) float32 { return float32(math.Max(float64(x)/32767, -1)) }), nil
	case [][4]uint16:
		return normalized(v, func(x uint16) float32 { return float32(x) / 65535 }), nil
	default:
		return nil, fmt.Errorf("unsupported keyframe data %T", data)
	}
}

func normalized[T int8 | uint8 | int16 | uint16](v [][4]T, conv func(T) float32) []float32 {
	out := make([]float32, 0, len(v)*4)
	for _, e := range v {
		for _, x := range e {
			out = append(out, conv(x))
		}
	}
	return out
}
