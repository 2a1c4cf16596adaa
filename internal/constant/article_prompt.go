package constant

// Chapter prompts come in four shapes: with or without search results, crossed
// with overview (the chapter has subsections that get their own chapters) or
// detailed (leaf chapter). Arguments are indexed so the chapter number can
// repeat in the closing line.

const (
	// SearchKeywordsPrompt arguments: chapter title, topic.
	SearchKeywordsPrompt = `I am going to write the "%[1]s" section for the topic: '%[2]s'. Please help me generate some search keywords that can represent the content of this section and can be retrieved by search engines. Please return in the format <begin>[keyword1, keyword2, keyword3]<end>. You should provide no more than 3 keywords.`

	// ChapterDetailedWithResultsPrompt arguments: chapter number, chapter title, topic, outline, formatted results.
	ChapterDetailedWithResultsPrompt = `Please generate chapter %[1]d: "%[2]s" based on the following article topic, outline, and search results:

Topic:
%[3]s

Outline:
%[4]s

Search Results:
%[5]s

Requirements:
1. Strictly follow the outline structure
2. Content should be detailed, specific, and logical
3. Language should be fluent and professional
4. Recommended chapter length: 800-1500 words
5. Maintain academic writing style
6. Ensure complete and coherent chapter content
7. Use information from search results and mark references with [n] format, where n is the search result number
8. Ensure accurate references based on search results
9. Do NOT add a reference list or bibliography at the end of the section.

Please generate the content for chapter %[1]d:`

	// ChapterOverviewWithResultsPrompt arguments: chapter number, chapter title, topic, outline, formatted results.
	ChapterOverviewWithResultsPrompt = `Please generate chapter %[1]d: "%[2]s" based on the following article topic, outline, and search results:

Topic:
%[3]s

Outline:
%[4]s

Search Results:
%[5]s

Requirements:
1. Only generate overview content for "%[2]s" chapter, do not expand its subsections in detail
2. Content should be a general introduction and overview of the chapter topic
3. Language should be fluent and professional
4. Recommended chapter length: 400-800 words (overview content)
5. Maintain academic writing style
6. May briefly mention subsections but do not expand in detail
7. Use information from search results and mark references with [n] format, where n is the search result number
8. Ensure accurate references based on search results
9. Do NOT include a reference list or bibliography at the end of the section.

Please generate the overview content for chapter %[1]d:`

	// ChapterDetailedPrompt arguments: chapter number, chapter title, topic, outline.
	ChapterDetailedPrompt = `Please generate chapter %[1]d: "%[2]s" based on the following article topic and outline:

Topic:
%[3]s

Outline:
%[4]s

Requirements:
1. Strictly follow the outline structure
2. Content should be detailed, specific, and logical
3. Language should be fluent and professional
4. Recommended chapter length: 800-1500 words
5. Maintain academic writing style
6. Ensure complete and coherent chapter content
7. Do NOT add a reference list or bibliography at the end of the section.

Please generate the content for chapter %[1]d:`

	// ChapterOverviewPrompt arguments: chapter number, chapter title, topic, outline.
	ChapterOverviewPrompt = `Please generate chapter %[1]d: "%[2]s" based on the following article topic and outline:

Topic:
%[3]s

Outline:
%[4]s

Requirements:
1. Only generate overview content for "%[2]s" chapter, do not expand its subsections in detail
2. Content should be a general introduction and overview of the chapter topic
3. Language should be fluent and professional
4. Recommended chapter length: 400-800 words (overview content)
5. Maintain academic writing style
6. May briefly mention subsections but do not expand in detail
7. Do NOT add a reference list or bibliography at the end of the section.

Please generate the overview content for chapter %[1]d:`
)

const (
	// SectionModifyWithResultsPrompt arguments: instruction, formatted results, section content.
	SectionModifyWithResultsPrompt = `Please modify the section according to the following instruction and search results:

Modification Instruction:
%[1]s

Search Results:
%[2]s

Section Content:
%[3]s

Requirements:
1. Strictly follow the modification instruction
2. Maintain the overall structure and logic of the section
3. Ensure the modified content is coherent and fluent
4. Maintain academic writing style
5. If the instruction involves deleting content, completely remove relevant parts
6. If the instruction involves adding content, add at appropriate positions
7. If the instruction involves modifying content, maintain original format and style
8. Can use information from search results to improve content, mark references with [n] format

Please output the complete modified section:`

	// SectionModifyPrompt arguments: instruction, section content.
	SectionModifyPrompt = `Please modify the section according to the following instruction:

Modification Instruction:
%[1]s

Section Content:
%[2]s

Requirements:
1. Strictly follow the modification instruction
2. Maintain the overall structure and logic of the section
3. Ensure the modified content is coherent and fluent
4. Maintain academic writing style
5. If the instruction involves deleting content, completely remove relevant parts
6. If the instruction involves adding content, add at appropriate positions
7. If the instruction involves modifying content, maintain original format and style

Please output the complete modified section:`

	// SectionPolishWithResultsPrompt arguments: feedback, formatted results, section content.
	SectionPolishWithResultsPrompt = `Please polish the section based on the following feedback and search results:

Polish Feedback:
%[1]s

Search Results:
%[2]s

Section Content:
%[3]s

Requirements:
1. Perform targeted polishing based on feedback
2. Improve language expression and logical structure of the section
3. Enhance readability and professionalism of the section
4. Keep core content and viewpoints unchanged
5. Ensure polished content is more fluent and accurate
6. Maintain academic writing style
7. If feedback involves specific issues, focus on resolving these problems
8. Can use information from search results to improve content, mark references with [n] format
9. Do not add content unrelated to the topic, such as comparisons with pre-polish content, summaries of modified parts, and explainations of improvements.
10. Do NOT add a reference list or bibliography at the end of the section.

Please output the complete polished section (do NOT include a reference list at the end):`

	// SectionPolishPrompt arguments: feedback, section content.
	SectionPolishPrompt = `Please polish the section based on the following feedback:

Polish Feedback:
%[1]s

Section Content:
%[2]s

Requirements:
1. Perform targeted polishing based on feedback
2. Improve language expression and logical structure of the section
3. Enhance readability and professionalism of the section
4. Keep core content and viewpoints unchanged
5. Ensure polished content is more fluent and accurate
6. Maintain academic writing style
7. If feedback involves specific issues, focus on resolving these problems
8. Do NOT add a reference list or bibliography at the end of the section.

Please output the complete polished section (do NOT include a reference list at the end):`
)

const (
	// ArticleModifyWithResultsPrompt arguments: instruction, formatted results, article text.
	ArticleModifyWithResultsPrompt = `Please modify the article based on the following instructions and search results:

Modification Instruction:
%[1]s

Search Results:
%[2]s

Original Text:
%[3]s

Requirements:
1. Strictly follow the modification instructions.
2. Maintain the overall structure and logic of the article.
3. Ensure the modified content is coherent and fluent.
4. Maintain an academic writing style.
5. If the instruction involves deleting content, please remove the relevant parts completely.
6. If the instruction involves adding content, please add it in the appropriate place.
7. If the instruction involves modifying content, please maintain the original format and style.
8. You can use information from the search results to improve the content and mark citations in the format [n].

Please output the complete modified article:`

	// ArticleModifyPrompt arguments: instruction, article text.
	ArticleModifyPrompt = `Please modify the article based on the following instructions:

Modification Instruction:
%[1]s

Original Text:
%[2]s

Requirements:
1. Strictly follow the modification instructions.
2. Maintain the overall structure and logic of the article.
3. Ensure the modified content is coherent and fluent.
4. Maintain an academic writing style.
5. If the instruction involves deleting content, please remove the relevant parts completely.
6. If the instruction involves adding content, please add it in the appropriate place.
7. If the instruction involves modifying content, please maintain the original format and style.

Please output the complete modified article:`

	// ArticlePolishWithResultsPrompt arguments: feedback, formatted results, article text.
	ArticlePolishWithResultsPrompt = `Please polish the article based on the following feedback and search results:

Polishing Feedback:
%[1]s

Search Results:
%[2]s

Original Text:
%[3]s

Requirements:
1. Polish the article based on the feedback.
2. Improve the language and logical structure of the article.
3. Enhance the readability and professionalism of the article.
4. Keep the core content and viewpoint of the article unchanged.
5. Ensure the polished content is more fluent and accurate.
6. Maintain an academic writing style.
7. If the feedback involves specific issues, please focus on resolving them.
8. You can use information from the search results to improve the content and mark citations in the format [n].

Please output the complete polished article:`

	// ArticlePolishPrompt arguments: feedback, article text.
	ArticlePolishPrompt = `Please polish the article based on the following feedback:

Polishing Feedback:
%[1]s

Original Text:
%[2]s

Requirements:
1. Polish the article based on the feedback.
2. Improve the language and logical structure of the article.
3. Enhance the readability and professionalism of the article.
4. Keep the core content and viewpoint of the article unchanged.
5. Ensure the polished content is more fluent and accurate.
6. Maintain an academic writing style.
7. If the feedback involves specific issues, please focus on resolving them.

Please output the complete polished article:`
)
