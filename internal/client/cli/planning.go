package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

)

const (
	dayLayout  = "Mon 02 Jan 2006"
	timeLayout = "15:04"
)

// Dates prints the accepted speed dates grouped per day.
func (a *App) Dates(ctx context.Context) error {
	groups, err := a.planningService.Accepted(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No speed dates planned.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintln(a.out, g.Day.Format(dayLayout))
		for _, d := range g.Items {
			fmt.Fprintf(a.out, "  %s  %s", d.Begin.In(a.loc).Format(timeLayout), displayName(d.CompanyName))
			if d.Room != "" {
				fmt.Fprintf(a.out, " (%s)", d.Room)
			}
			fmt.Fprintln(a.out)
		}
	}
	return nil
}

func (a *App) Pending(ctx context.Context) error {
	dates, err := a.planningService.Pending(ctx)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No pending requests.")
		return nil
	}
	for _, d := range dates {
		fmt.Fprintf(a.out, "  %s  %s\n", d.Begin.In(a.loc).Format(dayLayout+" "+timeLayout), displayName(d.CompanyName))
	}
	return nil
}

// Discover lists companies; by default only the ones not seen before.
func (a *App) Discover(ctx context.Context, all bool) error {
	companies, err := a.planningService.Discover(ctx, !all)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		fmt.Fprintln(a.out, "No companies to show.")
		return nil
	}
	for _, c := range companies {
		fmt.Fprintf(a.out, "  [%d] %s", c.UserID, displayName(c.Name))
		if c.Place != "" {
			fmt.Fprintf(a.out, ", %s", c.Place)
		}
		fmt.Fprintf(a.out, " (%.0f%%)\n", float64(c.MatchPercentage))
	}
	return nil
}

func (a *App) Slots(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: slots <companyID>", errUsage)
	}
	companyID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: slots <companyID>", errUsage)
	}

	groups, err := a.planningService.AvailableSlots(ctx, companyID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No free slots.")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintln(a.out, g.Day.Format(dayLayout))
		for _, s := range g.Items {
			fmt.Fprintf(a.out, "  %s-%s\n", s.Begin.In(a.loc).Format(timeLayout), s.End.In(a.loc).Format(timeLayout))
		}
	}
	return nil
}

// Book reserves a slot given as local date and time.
func (a *App) Book(ctx context.Context, args []string) error {
	const usage = "book <companyID> <YYYY-MM-DD> <HH:MM>"
	if len(args) != 3 {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	companyID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", args[1]+" "+args[2], a.loc)
	if err != nil {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}

	if err := a.planningService.Book(ctx, companyID, at); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booked %s.\n", at.Format(dayLayout+" "+timeLayout))
	return nil
}

// displayName is used in listings where a company has no name.
func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
