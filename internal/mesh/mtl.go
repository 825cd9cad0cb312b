package mesh

import (
	"bufio"
	"bytes"
	"strings"
)

// Material is one newmtl block of a Wavefront MTL file.
type Material struct {
	Name       string
	DiffuseMap string // map_Kd, relative to the MTL file
}

// DecodeMTL returns the materials of an MTL file in declaration order.
// Map options such as "-s 1 1 1" are skipped; the file name is the last field.
func DecodeMTL(raw []byte) []Material {
	var mats []Material
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 2 {
			continue
		}
		switch f[0] {
		case "newmtl":
			mats = append(mats, Material{Name: f[1]})
		case "map_Kd":
			if len(mats) > 0 {
				mats[len(mats)-1].DiffuseMap = f[len(f)-1]
			}
		}
	}
	return mats
}

// objMaterialRefs returns the mtllib files an OBJ references and the first
// material it selects with usemtl.
func objMaterialRefs(raw []byte) (libs []string, first string) {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 2 {
			continue
		}
		switch f[0] {
		case "mtllib":
			libs = append(libs, f[1:]...)
		case "usemtl":
			if first == "" {
				first = f[1]
			}
		}
	}
	return libs, first
}

// diffuseMap picks the texture of the named material, or the first material
// with a texture when name is empty or not declared.
func diffuseMap(mats []Material, name string) string {
	for _, m := range mats {
		if m.Name == name && m.DiffuseMap != "" {
			return m.DiffuseMap
		}
	}
	for _, m := range mats {
		if m.DiffuseMap != "" {
			return m.DiffuseMap
		}
	}
	return ""
}
