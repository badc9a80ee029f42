package ast

// NewFile wraps a parsed root CST node (Kind == KindFile) together with its
// FileInfo into the AST's entry point.
func NewFile(root *Node, info *FileInfo) *File {
	if root.Kind != KindFile {
		panic("ast.NewFile: root node is not KindFile")
	}
	return &File{base: base{root}, Info: info}
}

// Name returns the file's name from its FileInfo.
func (f *File) Name() string { return f.Info.Name() }
