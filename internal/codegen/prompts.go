package codegen

import "fmt"

func generatePrompt(text, language string) string {
	return fmt.Sprintf(`Convert the following natural language description into %s code.
Be concise but functional. Include comments for clarity.

Description: %s

Please provide clean, working code without any additional explanations.`, language, text)
}

func modifyPrompt(req ModifyRequest) string {
	return fmt.Sprintf(`I have %s code and need to modify specific lines.

Original code:
%s

Selected lines (%d-%d):
%s

Modification request: %s

Please provide the complete modified code with the changes applied only to the specified lines.
Keep the rest of the code unchanged. Return only the code without explanations.`,
		req.Language, req.OriginalCode, req.LineStart, req.LineEnd, req.SelectedLines, req.Modification)
}

func describePrompt(code, language string) string {
	return fmt.Sprintf(`Provide a clear, concise description of what this %s code does:

%s

Explain in simple terms what the code accomplishes, its main functionality,
and any important features. Keep it brief but informative.`, language, code)
}

func explainPrompt(code, language string) string {
	return fmt.Sprintf(`Explain the following %s code in simple terms:

%s

Provide a clear, beginner-friendly explanation of what this code does,
how it works, and any important concepts involved.`, language, code)
}

func debugPrompt(code, language string) string {
	return fmt.Sprintf(`Analyze this %s code for potential bugs, errors, and improvements:

%s

Provide a detailed analysis including:
1. Syntax errors (if any)
2. Logic errors or potential issues
3. Performance improvements
4. Best practice recommendations
5. Security concerns (if any)

Format as a structured analysis with clear sections.`, language, code)
}

func detectBugsPrompt(code, language string) string {
	return fmt.Sprintf(`Analyze the following %s code for potential bugs, errors, or improvements:

%s

Provide:
1. List of potential bugs or issues
2. Suggested fixes for each issue
3. Code quality improvements
4. Best practice recommendations

Format your response as JSON with 'issues' and 'suggestions' arrays.`, language, code)
}

func planPrompt(description, language string) string {
	return fmt.Sprintf(`Analyze this project description and determine if it needs multiple files:
"%s"

Language: %s

If it needs multiple files, respond with JSON:
{
    "is_multi_file": true,
    "files": [
        {"filename": "main.py", "content": "# Main file content"},
        {"filename": "utils.py", "content": "# Utility functions"}
    ]
}

If it's a simple single-file project, respond with:
{"is_multi_file": false}`, description, language)
}
