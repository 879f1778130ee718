package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quacklibs/azdo/internal/identity"
)

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

// promptSelect asks the user to pick one of several matching directory
// entries. Returning false means nothing was chosen.
func promptSelect(candidates []identity.Entry) (identity.Entry, bool) {
	fmt.Println("Multiple possible users found. Select one:")
	for i, candidate := range candidates {
		fmt.Printf("  [%d] %s\n", i+1, identity.DisplayString(candidate))
	}
	fmt.Print("> ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return identity.Entry{}, false
	}

	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > len(candidates) {
		return identity.Entry{}, false
	}
	return candidates[choice-1], true
}
