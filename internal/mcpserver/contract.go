package mcpserver

// TranscriptFormatContract describes the canonical Markdown transcript format
// that LLM consumers should expect when reading transcripts.
const TranscriptFormatContract = `# Skald Transcript Format Contract

Every transcript stored in Skald follows this structure.

## Structure

` + "```" + `markdown
# channel-name — 2026-02-10

### 09:15 — alice

Message content in plain text.
Multi-line messages keep their line breaks.

### 09:20 — bob

https://example.com/a-shared-link
` + "```" + `

## Rules

1. **Document header.** The first line is ` + "`" + `# <channel> — <YYYY-MM-DD>` + "`" + `,
   followed by a blank line. The date is the label of the collection day.
2. **Message headers** are level-3 headings: ` + "`" + `### HH:MM — <author>` + "`" + ` with
   a 24-hour wall-clock time and the author's display name, separated by
   an em dash with single spaces.
3. **Message bodies** follow their header after one blank line and run until
   the next message header. Bodies may span multiple lines.
4. **Ordering** is chronological within the day; times repeat when several
   messages share a minute.
5. **File paths** are ` + "`" + `<YYYY-MM-DD>/<channel>.md` + "`" + ` with forward slashes.
6. **Encoding** is UTF-8 with a trailing newline.
7. **Caveat:** message content is not escaped. A body line that itself starts
   with ` + "`" + `### ` + "`" + ` and matches the header shape will be read back as a new
   message. Treat parsed message boundaries as best-effort.

## Summaries

Rendered summaries live at the same ` + "`" + `<day>/<channel>.md` + "`" + ` key in the
summaries tree. They contain up to four sections (Decisions, Action Items,
Links Shared, Open Questions); sections without entries are omitted, and a
channel with fewer than 3 messages gets no summary at all.
`
