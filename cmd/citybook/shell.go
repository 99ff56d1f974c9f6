package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreiashu/citybook"
)

const shellMenu = `
1. Add a city
2. Search for a city
3. Update a city
4. Delete a city
5. Distance between two cities
6. List all cities
7. Nearest city to a coordinate
8. Save
0. Exit
`

// errQuit ends the shell when input runs out mid-prompt.
var errQuit = errors.New("end of input")

func newShellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newShell(s).run()
		},
	}
}

type shell struct {
	*session
	sc    *bufio.Scanner
	dirty bool
}

func newShell(s *session) *shell {
	return &shell{session: s, sc: bufio.NewScanner(s.in)}
}

func (sh *shell) run() error {
	fmt.Fprintf(sh.out, "Loaded %d cities from %s.\n", sh.reg.Len(), sh.store.Path())
	for {
		fmt.Fprint(sh.out, shellMenu)
		choice, err := sh.prompt("Choice")
		if err != nil {
			return sh.quit()
		}

		switch choice {
		case "1":
			err = sh.addCity()
		case "2":
			err = sh.searchCity()
		case "3":
			err = sh.updateCity()
		case "4":
			err = sh.deleteCity()
		case "5":
			err = sh.distance()
		case "6":
			sh.list()
		case "7":
			err = sh.nearestCity()
		case "8":
			err = sh.saveNow()
		case "0":
			return sh.exit()
		default:
			fmt.Fprintln(sh.out, "Unknown choice.")
		}

		if errors.Is(err, errQuit) {
			return sh.quit()
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

// prompt prints label and reads one trimmed line.
func (sh *shell) prompt(label string) (string, error) {
	fmt.Fprintf(sh.out, "%s: ", label)
	if !sh.sc.Scan() {
		return "", errQuit
	}
	return strings.TrimSpace(sh.sc.Text()), nil
}

// promptField keeps asking until the input parses and passes the range
// policy for f.
func (sh *shell) promptField(label string, f citybook.Field) (citybook.Value, error) {
	for {
		raw, err := sh.prompt(label)
		if err != nil {
			return citybook.Value{}, err
		}
		v, err := citybook.ParseValue(f, raw)
		if err == nil {
			err = citybook.ValidateField(f, v)
		}
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(sh.out, "Invalid input: %v\n", err)
	}
}

var addPrompts = []struct {
	field citybook.Field
	label string
}{
	{citybook.FieldName, "City name"},
	{citybook.FieldCountry, "Country"},
	{citybook.FieldPopulation, "Population"},
	{citybook.FieldRecordYear, fmt.Sprintf("Year recorded (%d-%d)", citybook.MinRecordYear, citybook.MaxRecordYear)},
	{citybook.FieldLatitude, "Latitude (-90 to 90)"},
	{citybook.FieldLongitude, "Longitude (-180 to 180)"},
	{citybook.FieldMayorName, "Mayor name"},
	{citybook.FieldMayorAddress, "Mayor address"},
	{citybook.FieldHistory, "History"},
}

func (sh *shell) addCity() error {
	var c citybook.City
	for _, p := range addPrompts {
		v, err := sh.promptField(p.label, p.field)
		if err != nil {
			return err
		}
		if err := c.Set(p.field, v); err != nil {
			return err
		}
	}
	if err := sh.add(c); err != nil {
		return err
	}
	sh.dirty = true
	return nil
}

// choose looks name up and, when several cities share it, asks the user
// to pick one by country. ok is false when nothing was chosen.
func (sh *shell) choose(label string) (m citybook.Match, ok bool, err error) {
	name, err := sh.prompt(label)
	if err != nil {
		return citybook.Match{}, false, err
	}

	matches := sh.reg.FindByName(name)
	switch len(matches) {
	case 0:
		_, rerr := sh.reg.Resolve(name, "")
		fmt.Fprintf(sh.out, "%v\n", rerr)
		return citybook.Match{}, false, nil
	case 1:
		return matches[0], true, nil
	}

	fmt.Fprintf(sh.out, "%d cities are named %q:\n", len(matches), name)
	for i, m := range matches {
		fmt.Fprintf(sh.out, "  %d) %s, %s\n", i+1, m.City.Name, m.City.Country)
	}
	for {
		raw, err := sh.prompt("Select")
		if err != nil {
			return citybook.Match{}, false, err
		}
		i, err := strconv.Atoi(raw)
		if err == nil && i >= 1 && i <= len(matches) {
			return matches[i-1], true, nil
		}
		fmt.Fprintf(sh.out, "Enter a number between 1 and %d.\n", len(matches))
	}
}

func (sh *shell) searchCity() error {
	m, ok, err := sh.choose("City name")
	if err != nil || !ok {
		return err
	}
	return sh.show(m.City)
}

func (sh *shell) updateCity() error {
	m, ok, err := sh.choose("City name")
	if err != nil || !ok {
		return err
	}

	var f citybook.Field
	for {
		raw, err := sh.prompt("Field")
		if err != nil {
			return err
		}
		if f, err = citybook.ParseField(raw); err == nil {
			break
		}
		fmt.Fprintf(sh.out, "Invalid input: %v\n", err)
	}

	v, err := sh.promptField("New value", f)
	if err != nil {
		return err
	}
	if err := sh.reg.UpdateMatch(m, f, v); err != nil {
		return err
	}
	sh.dirty = true
	fmt.Fprintf(sh.out, "Updated %s of %s.\n", f, m.City.Identity())
	return nil
}

func (sh *shell) deleteCity() error {
	m, ok, err := sh.choose("City name")
	if err != nil || !ok {
		return err
	}
	if err := sh.reg.RemoveMatch(m.City.Identity()); err != nil {
		return err
	}
	sh.dirty = true
	fmt.Fprintf(sh.out, "Removed %s.\n", m.City.Identity())
	return nil
}

func (sh *shell) distance() error {
	a, ok, err := sh.choose("From city")
	if err != nil || !ok {
		return err
	}
	b, ok, err := sh.choose("To city")
	if err != nil || !ok {
		return err
	}
	sh.printDistance(a, b)
	return nil
}

func (sh *shell) nearestCity() error {
	lat, err := sh.promptField("Latitude", citybook.FieldLatitude)
	if err != nil {
		return err
	}
	lon, err := sh.promptField("Longitude", citybook.FieldLongitude)
	if err != nil {
		return err
	}
	return sh.nearest(citybook.Coordinate{Latitude: lat.Float(), Longitude: lon.Float()})
}

func (sh *shell) saveNow() error {
	if err := sh.save(); err != nil {
		return err
	}
	sh.dirty = false
	fmt.Fprintf(sh.out, "Saved %d cities to %s.\n", sh.reg.Len(), sh.store.Path())
	return nil
}

// exit offers to save unsaved changes.
func (sh *shell) exit() error {
	if sh.dirty {
		answer, err := sh.prompt("Save changes? (y/n)")
		if err != nil {
			return sh.quit()
		}
		if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
			if err := sh.saveNow(); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(sh.out, "Goodbye.")
	return nil
}

// quit ends the session on end of input without saving.
func (sh *shell) quit() error {
	if sh.dirty {
		sh.log.Warn("input closed with unsaved changes", "file", sh.store.Path())
	}
	fmt.Fprintln(sh.out)
	return nil
}
