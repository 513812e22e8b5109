package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TestimonialCarousel/internal/carousel"
	"github.com/TestimonialCarousel/internal/domain"
)

// step is one scripted input applied at virtual time At.
type step struct {
	At   time.Duration
	Op   string
	Args []string
}

func (s step) String() string {
	if len(s.Args) == 0 {
		return s.Op
	}
	return s.Op + ":" + strings.Join(s.Args, ":")
}

// parseScript reads steps of the form op[:arg...]@time, for example
// "next@1s,goto:2@3s,swipe:300:100@4s,autoplay:off@5s".
func parseScript(script string) ([]step, error) {
	var steps []step
	for _, raw := range strings.Split(script, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		body, at, ok := strings.Cut(raw, "@")
		if !ok {
			return nil, fmt.Errorf("step %q: missing @time", raw)
		}
		d, err := time.ParseDuration(at)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", raw, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("step %q: negative time", raw)
		}

		parts := strings.Split(body, ":")
		s := step{At: d, Op: parts[0], Args: parts[1:]}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("step %q: %w", raw, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func (s step) validate() error {
	switch s.Op {
	case "next", "previous", "prev":
		return s.wantArgs(0)
	case "goto":
		if err := s.wantArgs(1); err != nil {
			return err
		}
		_, err := strconv.Atoi(s.Args[0])
		return err
	case "autoplay", "hover", "visible":
		if err := s.wantArgs(1); err != nil {
			return err
		}
		_, err := parseSwitch(s.Args[0])
		return err
	case "key", "add", "remove":
		return s.wantArgs(1)
	case "swipe":
		if err := s.wantArgs(2); err != nil {
			return err
		}
		for _, a := range s.Args {
			if _, err := strconv.ParseFloat(a, 64); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
}

func (s step) wantArgs(n int) error {
	if len(s.Args) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", s.Op, n, len(s.Args))
	}
	return nil
}

// apply runs the step against c and reports whether it took effect.
// Arguments have already been checked by validate.
func (s step) apply(c *carousel.Controller) bool {
	switch s.Op {
	case "next":
		return c.NextPage()
	case "previous", "prev":
		return c.PreviousPage()
	case "goto":
		n, _ := strconv.Atoi(s.Args[0])
		return c.GotoPage(carousel.Clamp(n, c.TotalPages()))
	case "autoplay":
		on, _ := parseSwitch(s.Args[0])
		c.SetAutoPlay(on)
		return true
	case "hover":
		on, _ := parseSwitch(s.Args[0])
		c.SetHovered(on)
		return true
	case "visible":
		on, _ := parseSwitch(s.Args[0])
		c.SetVisible(on)
		return true
	case "key":
		return c.Apply(carousel.KeyAction(s.Args[0]))
	case "swipe":
		startX, _ := strconv.ParseFloat(s.Args[0], 64)
		endX, _ := strconv.ParseFloat(s.Args[1], 64)
		return c.Apply(carousel.SwipeAction(startX, endX, 50))
	case "add":
		return c.AddItem(domain.Item{ID: s.Args[0], Name: s.Args[0], Quote: "Added during the run.", Rating: 5})
	case "remove":
		return c.RemoveItem(s.Args[0])
	}
	return false
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid switch %q (want on or off)", v)
}
