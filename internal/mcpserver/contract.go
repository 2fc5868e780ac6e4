package mcpserver

// NoteFormatContract describes the canonical Org note format that
// LLM consumers should follow when creating or updating notes.
const NoteFormatContract = `# Ansuz Note Format Contract

Every Org note stored in Ansuz MUST follow this structure.

## Structure

` + "```" + `org
#+title: Human-readable title       REQUIRED - used in search, sidebar, graph
#+author: Name One, Name Two        OPTIONAL - comma-separated author list
#+filetags: :tag-one:tag-two:       OPTIONAL - colon-delimited tags; used for filtering
#+date: 2025-01-15                  OPTIONAL - ISO-8601 date or datetime
#+todo: TODO NEXT | DONE            OPTIONAL - custom TODO keywords for this file

Body text in standard Org markup.

Use [[links]] to reference other notes (without .org extension).
Use [[target][description]] for display text that differs from the target.
Use * TODO Heading for actionable task headlines.
` + "```" + `

## Rules

1. **Keyword lines start the file.** ` + "`" + `#+KEY: value` + "`" + ` lines should appear
   before the first headline (no leading blank lines).
2. **` + "`" + `#+title:` + "`" + ` is required.** It is the primary display name everywhere.
3. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `project-x` + "`" + `, ` + "`" + `meeting-notes` + "`" + `),
   written colon-delimited: ` + "`" + `#+filetags: :project-x:meeting-notes:` + "`" + `.
4. **Links** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. The target is the
   filename stem (no ` + "`" + `.org` + "`" + ` extension, path separators OK: ` + "`" + `[[folder/note]]` + "`" + `).
   Link abbreviations declared with ` + "`" + `#+link: type url-with-%s` + "`" + ` may be used
   as ` + "`" + `[[type:path]]` + "`" + `.
5. **TODO keywords** default to TODO/DONE. Declare custom sequences with
   ` + "`" + `#+todo: OPEN WAITING | CLOSED` + "`" + ` (keywords before ` + "`" + `|` + "`" + ` are open states,
   after it closed states).
6. **File paths** end with ` + "`" + `.org` + "`" + ` and use forward slashes.
7. **Encoding** is UTF-8 with a trailing newline.
8. **Language policy:** file names and directory names MUST be in English (Latin characters).
   Keyword names MUST be in English (they are schema fields). Keyword values
   (title, tags, authors, etc.) and body content may use any language including Cyrillic.

## Assets & Images

- Upload assets via the ` + "`" + `upload_asset` + "`" + ` tool. It returns an ` + "`" + `orgImage` + "`" + ` field ready to paste into the note body.
- Assets are stored in the shared ` + "`" + `attachments/` + "`" + ` directory (flat, no sub-folders).
- Reference in notes using the absolute path: ` + "`" + `[[/attachments/filename.png]]` + "`" + `
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.
- Do **not** use relative paths like ` + "`" + `./attachments/...` + "`" + ` — always use ` + "`" + `/attachments/filename` + "`" + `.

## Example

` + "```" + `org
#+title: Weekly standup 2025-01-20
#+author: Alice
#+filetags: :meeting-notes:project-x:
#+date: 2025-01-20
#+todo: TODO | DONE

Attendees: Alice, Bob.

[[/attachments/standup-2025-01-20.jpg]]

* Action items

** TODO [[alice]] to review the [[design-doc]]
** DONE Bob updated [[project-x/roadmap][the roadmap]]
` + "```" + `
`
