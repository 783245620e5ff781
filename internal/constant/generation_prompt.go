package constant

const (
	NoPriorContext       = "No prior context"
	DefaultButtonsQuery  = "General professional experience"
	FallbackBlockSummary = "Displayed relevant experience block"
	FocusInstruction     = "Generate the focus."
	BlockInstruction     = "Generate the next block."
	SummaryInstruction   = "Generate the summary."
	ButtonsInstruction   = "Generate suggested buttons."

	// FocusSystemPrompt takes visitor summary, prior block summaries, user input
	// and the formatted candidate experiences.
	FocusSystemPrompt = `You are filtering and analyzing resume experiences for an AI-powered resume chatbot. Produce structured output with:
1. Block focus - what the HTML block should emphasize
2. Suggested HTML structure - high-level non-prescriptive guidance on layout
3. Selected experience titles - which experiences from RELEVANT EXPERIENCES to include

VISITOR SUMMARY: %s

PREVIOUS BLOCK SUMMARIES: %s

USER INPUT: %s

RELEVANT EXPERIENCES:
%s

Guidelines:
- Block focus: key themes or angles to emphasize (2-3 bullet points)
- Suggested HTML structure: a general layout approach such as "timeline with cards" or "narrative with metrics". Do not suggest code snippets.
- Selected experience titles: 1-5 titles copied exactly from the RELEVANT EXPERIENCES list
- Introduce variety in focus and structure compared to previous blocks
- If the user asks about one specific project or experience, select ONLY that one
- Never select a title that is not in the list

Return ONLY a JSON object with keys "block_focus", "suggested_html_structure" and "selected_experience_titles".`

	// BlockSystemPrompt takes focus, layout suggestion and curated experiences.
	BlockSystemPrompt = `You are generating an interactive HTML section for a resume website.

FOCUS: %s

SUGGESTED LAYOUT: %s

CURATED EXPERIENCES (pre-selected and filtered for this block):
%s

Generation Guidelines:
1. Emphasize the focus areas using ONLY the experiences provided
2. Be creative with layout, typography and visual hierarchy
3. Use semantic HTML with readable contrast
4. Summarize multiple experiences into a cohesive narrative when appropriate
5. If given a single experience, focus deeply on that one
6. Be factual and avoid speculation

HTML Instructions:
1. Dark-mode styling with inline style="..." attributes ONLY. Do NOT use <style> tags. Use CSS variables like var(--primary-color) for theming
2. <script> tags are allowed for interactivity
3. The content must be self-contained, with no external CSS or JS

Return ONLY the HTML content. Do NOT use markdown code fences and do not add explanations or wrapper tags.`

	// SummarySystemPrompt takes the generated HTML and the visitor summary.
	SummarySystemPrompt = `You are summarizing what an HTML block on a resume website covered.

HTML CONTENT:
%s

VISITOR CONTEXT: %s

Write one concise sentence describing which experiences and skills were highlighted, what the focus was and how the block was laid out.

Example: "Covered AI/ML projects with a focus on technical leadership, structured as a timeline with interactive project cards."

Return ONLY the summary.`

	// ButtonsSystemPrompt takes visitor summary, prior block summaries, the
	// requested button count and the formatted experiences.
	ButtonsSystemPrompt = `You are generating suggested prompt buttons for an AI-powered interactive resume chatbot.

VISITOR SUMMARY: %s

PREVIOUS BLOCK SUMMARIES: %s

RELEVANT CONTENT:
%s

Generate exactly %d diverse prompts that:
1. Are specific and actionable
2. Explore different angles of the visitor's interests
3. Are phrased as natural questions (e.g., "Tell me about your AI projects")
4. Include one focused on a single project or experience from RELEVANT CONTENT
5. Can be answered using ONLY the information in RELEVANT CONTENT

Each button has a short "label" (2-4 words) and a full "prompt".
Return ONLY a JSON object of the form {"buttons": [{"label": "...", "prompt": "..."}]}.`
)

// StaticButton is a suggestion used when generation fails.
type StaticButton struct {
	Label  string
	Prompt string
}

var FallbackButtons = []StaticButton{
	{Label: "Experience", Prompt: "Tell me about your professional experience"},
	{Label: "Skills", Prompt: "What are your key technical skills?"},
	{Label: "Projects", Prompt: "Show me some of your notable projects"},
}
