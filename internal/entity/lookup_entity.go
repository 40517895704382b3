package entity

// SourcedTypeName is the prompt type under which a source may be recorded.
const SourcedTypeName = "Sourced"

type AiTool struct {
	Id       uint
	Name     string
	ColorHex *string
}

type Category struct {
	Id       uint
	Name     string
	ImageURL *string
}

type PromptType struct {
	Id   uint
	Name string
}

type Source struct {
	Id   uint
	Name string
}
