package dto

type OutlineGenerateRequest struct {
	Type               string `json:"type" validate:"required,oneof=generate_outline modify_outline polish_outline"`
	Prompt             string `json:"prompt"`
	PromptType         string `json:"prompt_type"`
	PolishRequirements string `json:"polish_requirements"`
	Reference          string `json:"reference"`
}

type DemoOutlineRequest struct {
	Topic   string `json:"topic" validate:"required"`
	Outline string `json:"outline"`
}

type ArticleGenerateRequest struct {
	Type    string `json:"type" validate:"required"`
	Outline string `json:"outline"`
	Topic   string `json:"topic"`
	Pos     *int   `json:"pos"`

	// continue_generation
	StartChapterIndex *int `json:"start_chapter_index"`

	// generate_single_chapter
	ChapterIndex *int   `json:"chapter_index"`
	ChapterTitle string `json:"chapter_title"`

	// modify_article / polish_article
	Instruction string `json:"instruction"`
	Feedback    string `json:"feedback"`

	// modify_section / polish_section
	SectionContent          string `json:"section_content"`
	ModificationInstruction string `json:"modification_instruction"`
}
