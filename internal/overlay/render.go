package overlay

// titleStyle/resetStyle draw the overlay's title row in inverse video.
const titleStyle = "\033[7m\033[36m"
const resetStyle = "\033[0m"

// Render composes p's visible rows as plain display lines: a title row
// naming the overlay, followed by one line per visible Action with the
// cursor row marked by a leading ">". The result has at most maxRows
// lines; callers still need to clamp each line to the terminal's column
// count before writing it out.
func Render(p *Panel, maxRows int) []string {
	if p == nil || maxRows <= 0 {
		return nil
	}

	lines := make([]string, 0, maxRows)
	lines = append(lines, titleStyle+" "+p.Kind.String()+" "+resetStyle)

	for i, item := range p.Visible() {
		if len(lines) >= maxRows {
			break
		}
		marker := "  "
		if p.ScrollTop+i == p.Cursor {
			marker = "> "
		}
		line := marker + item.Label
		if item.Detail != "" {
			line += "  " + item.Detail
		}
		if !item.Enabled {
			line = "(disabled) " + line
		}
		lines = append(lines, line)
	}
	return lines
}
