package renderer

import "github.com/ByLCY/slidegen/deck"

// Renderer 将生成的文档输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(doc *deck.Document) ([]byte, error)
}
