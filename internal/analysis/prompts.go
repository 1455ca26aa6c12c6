package analysis

import (
	"fmt"
	"strings"
)

const (
	classifierSystemPrompt = "You are a query classification assistant. Classify the following retail video/image question into one of the following categories:\n" +
		"- location_query\n- count_query\n- price_query\n- brand_query\n- product_identification\n- generic_query\n\nReturn ONLY the category name."

	frameSystemPrompt = "You are an expert retail shelf analyst that provides accurate, image-based product insights from shelf photos."

	summarySystemPrompt = "You are a summarization expert for retail shelf video analytics."

	criticSystemPrompt = "You are an expert QA critic evaluating factual correctness in AI responses."
)

func buildClassifierPrompt(question string) string {
	return fmt.Sprintf("Query: %s\n\nCategory:", question)
}

// buildFramePrompt assembles the per-frame instruction: fixed single-frame
// framing, optional frame/timestamp context, and the category-specific
// output-shape block.
func buildFramePrompt(question string, category Category, frameIndex int, timestampMS int64) string {
	frameContext := ""
	if frameIndex >= 0 {
		frameContext = fmt.Sprintf("\nFrame Number: %d\nTimestamp (ms): %d", frameIndex, timestampMS)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a helpful assistant that analyzes retail shelf images taken from video frames. Each image is from a different time and angle in the store video. The user will ask a question about products on the shelf. Your job is to analyze only this single image/frame, and return a clear and factual answer.

General Instructions:
- Use only the visible contents of this frame to answer the user's question.
- Frame context: %s
- Do not assume what's outside the frame or in other frames.
- Be concise, courteous, and specific to the query.
- If the requested product or detail is not visible, state that clearly.
- If the query refers to a specific product, then at the end of the summary add a new line in this format exactly:
  product_name = <Product Name>
- If no product is mentioned, skip this line.
- Always end your response with: product_name = <Product Name> if a product is clearly referenced or visible.

Query Type: %s
User Query: %s
`, frameContext, category.QueryLabel(), question)

	b.WriteString(categoryInstructions(category))
	return b.String()
}

func categoryInstructions(category Category) string {
	switch category {
	case CategoryLocation:
		return `
Focus on where the product is placed or visible in the frame.

Return your answer in a complete sentence using the format below:

Direct Answer: <short sentence describing the product's location>
Reasoning: <brief explanation based on visual observation>`

	case CategoryCount:
		return `
If the user is asking what percentage of shelf space each product occupies, estimate approximate percentages based on visual size and presence on the shelf.

Return your answer in the following format exactly:

Direct Answer: <give a direct or range of percentage for the product asked, based on image content only>
Reasoning: <brief explanation based on the image content>`

	case CategoryPrice:
		return `
Look for visible price tags, price boards, or labels in the frame.

If the price is not clearly visible, return a sentence like "The price is not visible in this frame."

Return your answer in the following format exactly:

Direct Answer: <price or a full sentence like "The price is not visible.">
Reasoning: <explain how the price was identified or why it's not visible>`

	case CategoryBrand:
		return `
Identify the brand of the product(s) visible in the frame.

If no brand is clearly identifiable, return a full sentence like "The brand is not visible in the image."

Return your answer in the following format exactly:

Direct Answer: <brand name or a sentence like "Brand not visible in the image.">
Reasoning: <explanation based on product packaging, logo, or label clues>`

	case CategoryProductID:
		return `
Identify the product shown in the frame based on visual appearance.

If no product is clearly identifiable, return a full sentence like "The product is not recognizable in this image."

Return your answer in the following format exactly:

Direct Answer: <product name or full sentence>
Reasoning: <why you think it is this product (e.g., color, label, logo)>`

	default:
		return `
Answer the user's question clearly based on what is visible in the frame.

Avoid single-word answers like just "Yes" or "No". Use a complete sentence to answer, even if it's a simple one.

Return your answer in the following format exactly:

Direct Answer: <your best complete answer>
Reasoning: <brief explanation based on the image content>`
	}
}

func buildSummaryPrompt(question, combinedText string) string {
	return fmt.Sprintf(`You are a summarization assistant. Based on the following frame-wise analysis of a shelf video, identify and answer the user's question directly and explain your reasoning clearly.

User Query: %s

Frame Responses:
%s

Return in the following format:
Direct Answer: <your direct answer here>
Reasoning: <brief but clear reasoning for your answer>
Return a helpful, natural language summary. End with:
product_name = <Product Name> (if mentioned)
`, question, combinedText)
}

func buildCriticPrompt(question, directAnswer, reasoning, combinedText string) string {
	return fmt.Sprintf(`You are a Critic Agent that validates the accuracy of AI-generated responses in retail shelf image or video analysis.

Given:
- A user query
- The direct answer generated
- The reasoning provided
- Supporting evidence from multiple image frames

Tasks:
- Check if the direct answer is factually supported by any of the frame responses.
- Validate whether the reasoning logically follows from the visual evidence.
- Point out any incorrect or unsupported claims.
- If everything looks good, confirm the answer is accurate.

User Question:
%s

Direct Answer:
%s

Reasoning:
%s

Frame Analysis Evidence:
%s

Return output in the following format:

Critic Verdict: <Valid | Invalid>
Explanation: <what is accurate/inaccurate and why>
`, question, directAnswer, reasoning, combinedText)
}
