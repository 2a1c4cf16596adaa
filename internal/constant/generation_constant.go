package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Operation types accepted by the outline endpoint.
const (
	OutlineOpGenerate = "generate_outline"
	OutlineOpModify   = "modify_outline"
	OutlineOpPolish   = "polish_outline"
)

// Operation types accepted by the article endpoint. The first three stream
// tagged chapter output; the rest return a single JSON result.
const (
	ArticleOpGenerate      = "generate_article"
	ArticleOpContinue      = "continue_generation"
	ArticleOpSingleChapter = "generate_single_chapter"
	ArticleOpModifyArticle = "modify_article"
	ArticleOpPolishArticle = "polish_article"
	ArticleOpModifySection = "modify_section"
	ArticleOpPolishSection = "polish_section"
)
