// Package vector 实现基于形状的 SVG 背景移除：找出包围盒面积最大的 path 并删除。
package vector

import (
	"errors"
	"strings"

	"github.com/beevik/etree"
	"github.com/chaos-io/vecmask/util"
	"go.uber.org/zap"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// ErrNoDocument 输入为空或无法恢复出根元素
var ErrNoDocument = errors.New("vector: no parseable document")

// Document 宽松解析得到的 SVG 元素树
type Document struct {
	doc *etree.Document
}

// Parse 宽松解析 SVG 文本
//
// 解码器在语法错误处停止时，保留已经构建好的部分树；只有连根元素都没有时才返回 ErrNoDocument。
func Parse(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoDocument
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(text); err != nil {
		if doc.Root() == nil {
			return nil, errors.Join(ErrNoDocument, err)
		}
		util.Logger.Warn("recovered partial svg document", zap.Error(err))
	}
	if doc.Root() == nil {
		return nil, ErrNoDocument
	}

	return &Document{doc: doc}, nil
}

// Root 根元素
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Paths 按文档顺序（先序遍历）返回所有 path 元素
func (d *Document) Paths() []*etree.Element {
	var paths []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if isPath(e) {
			paths = append(paths, e)
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(d.doc.Root())
	return paths
}

// isPath 接受 SVG 命名空间或无命名空间下的 path，
// 比只匹配 SVG 命名空间更宽：未声明 xmlns 的文档里的 path 也会参与比较
func isPath(e *etree.Element) bool {
	if e.Tag != "path" {
		return false
	}
	ns := e.NamespaceURI()
	return ns == "" || ns == svgNamespace
}

// Remove 把元素从父节点上摘除
func (d *Document) Remove(e *etree.Element) bool {
	parent := e.Parent()
	if parent == nil {
		return false
	}
	return parent.RemoveChild(e) != nil
}

// String 缩进 2 空格序列化整棵树
func (d *Document) String() (string, error) {
	d.doc.Indent(2)
	return d.doc.WriteToString()
}
