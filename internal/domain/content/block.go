package content

type BlockType string

const (
	BlockText          BlockType = "text"
	BlockHeading       BlockType = "heading"
	BlockImage         BlockType = "image"
	BlockCode          BlockType = "code"
	BlockQuote         BlockType = "quote"
	BlockList          BlockType = "list" // legacy alias, newline separated items
	BlockUnorderedList BlockType = "unordered-list"
	BlockOrderedList   BlockType = "ordered-list"
	BlockTable         BlockType = "table"
)

// Block is one unit of the legacy structured content format.
type Block struct {
	Type     BlockType      `json:"type" yaml:"type"`
	Content  string         `json:"content" yaml:"content"`
	Metadata *BlockMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type BlockMetadata struct {
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Alt returns the image alt text, if any.
func (b Block) Alt() string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata.Alt
}

func (t BlockType) Known() bool {
	switch t {
	case BlockText, BlockHeading, BlockImage, BlockCode, BlockQuote,
		BlockList, BlockUnorderedList, BlockOrderedList, BlockTable:
		return true
	}
	return false
}
