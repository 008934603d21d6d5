package loop

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/invaders/internal/loop/config"
)

// styles are the lipgloss styles of the text screens, bound to one renderer
// so SSH sessions get their own color profile.
type styles struct {
	panel  lipgloss.Style
	title  lipgloss.Style
	subtle lipgloss.Style
	accent lipgloss.Style
	errMsg lipgloss.Style
	okMsg  lipgloss.Style
	input  lipgloss.Style
	header lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 3).
			Align(lipgloss.Center),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		subtle: r.NewStyle().Foreground(lipgloss.Color("244")),
		accent: r.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		errMsg: r.NewStyle().Foreground(lipgloss.Color("196")),
		okMsg:  r.NewStyle().Foreground(lipgloss.Color("46")),
		input: r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("244")).
			Width(config.MaxUsernameLength + 1),
		header: r.NewStyle().Bold(true).Underline(true),
	}
}

// drawPanel renders lines inside a bordered panel centered on (centerX, centerY).
func (c *Client) drawPanel(centerX, centerY int, lines ...string) {
	block := c.styles.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	w, h := lipgloss.Width(block), lipgloss.Height(block)
	c.chunkWriter.WriteBlock(max(centerX-w/2, 1), max(centerY-h/2, 1), block)
}

// blink is true for the visible half of a 1.2 second blink cycle.
func blink(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int, now time.Time) {
	// ASCII art title (figlet "small" font)
	titleArt := strings.Join([]string{
		` ___ _  ___   ___   ___  ___ ___  ___ `,
		`|_ _| \| \ \ / /_\ |   \| __| _ \/ __|`,
		` | || .' |\ V / _ \| |) | _||   /\__ \`,
		`|___|_|\_| \_/_/ \_\___/|___|_|_\|___/`,
	}, "\n")

	controls := strings.Join([]string{
		"A D / < >  . . . .  Move",
		"SPACE / W  . . . .  Fire",
		"Q  . . . . . . . .  Quit",
	}, "\n")

	prompt := " "
	if blink(now) {
		prompt = c.styles.accent.Render(">>  Press SPACE to Start  <<")
	}

	c.drawPanel(centerX, centerY,
		c.styles.title.Render(titleArt),
		"",
		c.styles.subtle.Render("Shoot the falling upgrades to power up your cannon"),
		"",
		controls,
		"",
		prompt,
	)
}

// drawGameOverScreen shows the final score and the name prompt.
func (c *Client) drawGameOverScreen(centerX, centerY int, now time.Time) {
	name := string(c.state.Username)
	if blink(now) {
		name += "_"
	}

	hint := "letters and digits, ENTER to submit, ESC to skip"
	if c.board == nil {
		hint = "playing offline, ESC to continue"
	}

	c.drawPanel(centerX, centerY,
		c.styles.title.Render("GAME OVER"),
		"",
		fmt.Sprintf("Final score: %s", c.styles.accent.Render(fmt.Sprint(c.state.FinalScore))),
		"",
		"Enter your name:",
		c.styles.input.Render(name),
		c.styles.subtle.Render(hint),
	)
}

// drawSubmittingScreen shows a spinner while the score is in flight.
func (c *Client) drawSubmittingScreen(centerX, centerY int, now time.Time) {
	frames := []string{"|", "/", "-", "\\"}
	spinner := frames[now.UnixMilli()/150%int64(len(frames))]
	c.drawPanel(centerX, centerY,
		fmt.Sprintf("%s Submitting score %d as %s", spinner, c.state.FinalScore, string(c.state.Username)),
	)
}

// drawResultsScreen shows the submission outcome and the top scores.
func (c *Client) drawResultsScreen(centerX, centerY int) {
	var outcome string
	switch {
	case c.state.Submitted:
		outcome = c.styles.okMsg.Render(fmt.Sprintf("Score %d submitted as %s", c.state.FinalScore, string(c.state.Username)))
	case errors.Is(c.state.SubmitErr, ErrOffline):
		outcome = c.styles.subtle.Render("Playing offline, score not submitted")
	case c.state.SubmitErr != nil:
		outcome = c.styles.errMsg.Render("Submission failed: " + c.state.SubmitErr.Error())
	default:
		outcome = c.styles.subtle.Render(fmt.Sprintf("Score %d not submitted", c.state.FinalScore))
	}

	lines := []string{c.styles.title.Render("RESULTS"), "", outcome, ""}
	switch {
	case c.state.TopErr != nil:
		lines = append(lines, c.styles.errMsg.Render("Could not load top scores"))
	case len(c.state.TopScores) > 0:
		lines = append(lines, c.topScoresTable())
	}
	lines = append(lines, "", c.styles.accent.Render("SPACE to play again, Q to quit"))

	c.drawPanel(centerX, centerY, lines...)
}

func (c *Client) topScoresTable() string {
	rows := []string{c.styles.header.Render(fmt.Sprintf("%-3s %-30s %8s", "#", "Name", "Score"))}
	for i, r := range c.state.TopScores {
		row := fmt.Sprintf("%-3d %-30s %8d", i+1, r.Username, r.Score)
		if r.Username == string(c.state.Username) && r.Score == c.state.FinalScore {
			row = c.styles.accent.Render(row)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int, now time.Time) {
	left := int(config.InactivityDisconnectUser - now.Sub(c.lastInput).Seconds())
	c.drawPanel(centerX, centerY,
		c.styles.errMsg.Render("INACTIVITY WARNING"),
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)),
		"",
		c.styles.subtle.Render("Press any key to continue"),
	)
}
