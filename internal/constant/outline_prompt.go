package constant

const (
	// OutlineGeneratePrompt is appended after the user's topic message. The
	// model sees the topic first, then these formatting rules.
	OutlineGeneratePrompt = `You now need to create an outline for this topic book
Please strictly follow these rules when writing the outline:
Use "# Title" for first-level headings, "## Title" for second-level headings, "### Title" for third-level headings, and so on.
The outline should only contain hierarchical headings at various levels, without any additional information or body content.
Do not include the topic name itself in the outline.
Generate only 5 lines most.
The outline you output:`

	// OutlinePolishPrompt arguments: outline, polish requirements, reference material.
	OutlinePolishPrompt = `You are an experienced outline polishing assistant. Please refine the provided outline by improving language expression, optimizing logical structure, and enhancing presentation effectiveness to make the outline clearer, more concise, and easier to understand.

Outline content:

%[1]s

Polishing requirements (optional):

(e.g., strengthen logical coherence, increase language conciseness, highlight key points, etc. If no specific requirements, leave blank.)

%[2]s

Reference materials (optional):

(If you have relevant reference materials or retrieved content, paste here. If none, leave blank.)

%[3]s

Please strictly follow these rules when polishing the outline:
Use "# Title" for first-level headings, "## Title" for second-level headings, "### Title" for third-level headings, and so on.
The outline should only contain hierarchical headings at various levels, without any additional information or body content.
Do not include the topic name itself in the outline.

Based on the above information and rules, please polish the outline and return the refined version.`
)
