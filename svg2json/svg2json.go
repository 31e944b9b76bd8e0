package svg2json

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"
)

// Group 是草稿中的一个颜色分组
type Group struct {
	ID       string   `json:"id"`
	Fill     string   `json:"fill,omitempty"`
	Comments []string `json:"comments,omitempty"`
	Paths    int      `json:"paths"`
}

// Document 是对 SVG 文档结构的摘要
type Document struct {
	Width    string   `json:"width"`
	Height   string   `json:"height"`
	ViewBox  []int    `json:"view_box"`
	Comments []string `json:"comments"`
	Groups   []Group  `json:"groups"`
}

// TracedPath 是一个 <path> 及其所在 <g> 的 transform
type TracedPath struct {
	Transform string
	D         string
}

// Inspect 解析 SVG 文档，viewBox 交给 rustyoz/svg 解析，其余结构用 encoding/xml 遍历
func Inspect(svgData string) (Document, error) {
	parsed, err := svg.ParseSvg(svgData, "draft", 1.0)
	if err != nil {
		return Document{}, err
	}
	viewBox, err := parseViewBox(parsed.ViewBox)
	if err != nil {
		return Document{}, err
	}

	doc := Document{ViewBox: viewBox, Comments: []string{}, Groups: []Group{}}

	dec := xml.NewDecoder(strings.NewReader(svgData))
	depth := 0
	var current *Group
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Document{}, fmt.Errorf("parse svg: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case t.Name.Local == "svg" && depth == 1:
				doc.Width = attr(t, "width")
				doc.Height = attr(t, "height")
			case t.Name.Local == "g" && depth == 2:
				doc.Groups = append(doc.Groups, Group{ID: attr(t, "id"), Fill: attr(t, "fill")})
				current = &doc.Groups[len(doc.Groups)-1]
			case t.Name.Local == "path" && current != nil:
				current.Paths++
			}
		case xml.EndElement:
			if t.Name.Local == "g" && depth == 2 {
				current = nil
			}
			depth--
		case xml.Comment:
			text := strings.TrimSpace(string(t))
			if current != nil {
				current.Comments = append(current.Comments, text)
			} else {
				doc.Comments = append(doc.Comments, text)
			}
		}
	}
	return doc, nil
}

// InspectJSON 返回 JSON 字符串
func InspectJSON(svgData string) ([]byte, error) {
	doc, err := Inspect(svgData)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ExtractPaths 从 SVG 字符串中提取所有 <path> 的 d 属性及外层 transform
func ExtractPaths(svgData string) []TracedPath {
	var paths []TracedPath
	var transforms []string

	dec := xml.NewDecoder(strings.NewReader(svgData))
	for {
		tok, err := dec.Token()
		if err != nil {
			// 解析失败时返回已取得的部分
			return paths
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "g":
				tr := attr(t, "transform")
				if tr == "" && len(transforms) > 0 {
					tr = transforms[len(transforms)-1]
				}
				transforms = append(transforms, tr)
			case "path":
				p := TracedPath{D: attr(t, "d")}
				if len(transforms) > 0 {
					p.Transform = transforms[len(transforms)-1]
				}
				if p.D != "" {
					paths = append(paths, p)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "g" && len(transforms) > 0 {
				transforms = transforms[:len(transforms)-1]
			}
		}
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// parseViewBox 读取 viewBox 中的 4 个数
func parseViewBox(box string) ([]int, error) {
	fields := strings.Fields(strings.ReplaceAll(box, ",", " "))
	if len(fields) != 4 {
		return nil, fmt.Errorf("invalid viewBox %q", box)
	}
	ints := make([]int, 4)
	for idx, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid viewBox %q: %w", box, err)
		}
		ints[idx] = int(f)
	}
	return ints, nil
}
