package mcpserver

// SearchGuide explains to LLM consumers how to phrase search prompts
// so the query parser extracts useful criteria.
const SearchGuide = `# Raido File Search Guide

The ` + "`" + `search_files` + "`" + ` tool searches a local directory tree by three criteria
derived from your prompt: file extension, filename keywords, and content
keywords. A file must satisfy every criterion your prompt activates.

## Writing prompts

1. **Name extensions with the leading dot.** ` + "`" + `.pdf` + "`" + `, ` + "`" + `.docx` + "`" + `, ` + "`" + `.py` + "`" + ` —
   extensions are matched exactly and case-insensitively.
2. **Use meaningful keywords.** Words of three letters or more become
   filename and content keywords; filler words ("a", "in", "of") are ignored.
3. **Fewer criteria find more files.** Every named criterion must match, so
   a prompt with an extension AND keywords only returns files satisfying both.
4. **folder_path must exist.** Use ` + "`" + `validate_path` + "`" + ` first when unsure.

## Examples

- ` + "`" + `find .pdf files about machine learning` + "`" + ` — PDF files whose content
  mentions the keywords.
- ` + "`" + `.py scripts with neural network code` + "`" + ` — Python sources mentioning
  neural networks.
- ` + "`" + `quarterly report spreadsheets` + "`" + ` — any file whose name or cells mention
  the keywords.

## Reading results

Results are ranked: extension matches first, then filename matches, then
content matches, higher relevance first. Each entry shows the relative
path, the full path, a relevance score, and which keywords matched.
When nothing matches, the tool falls back to listing the folder's
top-level files so you can refine the prompt.

## Searchable formats

PDF (first 5 pages), Word documents, JSON, spreadsheets (first 3 sheets),
CSV, and any text-like format (source code, markup, logs, plain text).
Other binary files match by name and extension only.`
