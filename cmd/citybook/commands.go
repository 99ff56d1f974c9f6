package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreiashu/citybook"
)

// geohashPrecision of 7 gives cells of roughly 150m.
const geohashPrecision = 7

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cities in registry order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.list()
			return nil
		},
	}
}

func (s *session) list() {
	cities := s.reg.Cities()
	if len(cities) == 0 {
		fmt.Fprintln(s.out, "No cities registered.")
		return
	}
	for i, c := range cities {
		fmt.Fprintf(s.out, "%d. %s, %s (population %d in %d)\n", i+1, c.Name, c.Country, c.Population, c.RecordYear)
	}
}

func newShowCmd(s *session) *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show every detail of one city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.resolve(args[0], country)
			if err != nil {
				return err
			}
			return s.show(m.City)
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "country, when the name is ambiguous")
	return cmd
}

func (s *session) show(c citybook.City) error {
	if err := c.Display(s.out); err != nil {
		return err
	}
	if coord := c.Coordinate(); coord.Valid() {
		fmt.Fprintf(s.out, "Geohash: %s\n", coord.Geohash(geohashPrecision))
	}
	return nil
}

func newAddCmd(s *session) *cobra.Command {
	var c citybook.City
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.add(c); err != nil {
				return err
			}
			return s.save()
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.Name, "name", "", "city name")
	f.StringVar(&c.Country, "country", "", "country")
	f.IntVar(&c.Population, "population", 0, "population (>= 0)")
	f.IntVar(&c.RecordYear, "year", 0, fmt.Sprintf("year the population was recorded (%d-%d)", citybook.MinRecordYear, citybook.MaxRecordYear))
	f.Float64Var(&c.Latitude, "lat", 0, "latitude in degrees (-90 to 90)")
	f.Float64Var(&c.Longitude, "lon", 0, "longitude in degrees (-180 to 180)")
	f.StringVar(&c.MayorName, "mayor", "", "mayor's name")
	f.StringVar(&c.MayorAddress, "address", "", "mayor's address")
	f.StringVar(&c.History, "history", "", "short history")
	for _, name := range []string{"name", "country", "year", "mayor", "address", "history"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (s *session) add(c citybook.City) error {
	if err := citybook.Validate(c); err != nil {
		return fmt.Errorf("invalid city:\n%w", err)
	}
	s.reg.Add(c)
	fmt.Fprintf(s.out, "Added %s.\n", c.Identity())
	return nil
}

func newUpdateCmd(s *session) *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "update NAME FIELD VALUE",
		Short: "Change one field of a city",
		Long: `Change one field of a city. FIELD is one of:
  name, country, population, recordYear, latitude, longitude,
  mayorName, mayorAddress, history`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, v, err := parseFieldValue(args[1], args[2])
			if err != nil {
				return err
			}
			m, err := s.resolve(args[0], country)
			if err != nil {
				return err
			}
			if err := s.reg.UpdateField(m.City.Identity(), f, v); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Updated %s of %s.\n", f, m.City.Identity())
			return s.save()
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "country, when the name is ambiguous")
	return cmd
}

// parseFieldValue turns raw text into a typed, range-checked field value.
func parseFieldValue(fieldName, raw string) (citybook.Field, citybook.Value, error) {
	f, err := citybook.ParseField(fieldName)
	if err != nil {
		return 0, citybook.Value{}, err
	}
	v, err := citybook.ParseValue(f, raw)
	if err != nil {
		return 0, citybook.Value{}, err
	}
	if err := citybook.ValidateField(f, v); err != nil {
		return 0, citybook.Value{}, err
	}
	return f, v, nil
}

func newRemoveCmd(s *session) *cobra.Command {
	var country string
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.resolve(args[0], country)
			if err != nil {
				return err
			}
			if err := s.reg.RemoveMatch(m.City.Identity()); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Removed %s.\n", m.City.Identity())
			return s.save()
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "country, when the name is ambiguous")
	return cmd
}

func newDistanceCmd(s *session) *cobra.Command {
	var fromCountry, toCountry string
	cmd := &cobra.Command{
		Use:   "distance FROM TO",
		Short: "Great-circle distance between two cities in km",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.resolve(args[0], fromCountry)
			if err != nil {
				return err
			}
			b, err := s.resolve(args[1], toCountry)
			if err != nil {
				return err
			}
			s.printDistance(a, b)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromCountry, "from-country", "", "country of FROM, when ambiguous")
	cmd.Flags().StringVar(&toCountry, "to-country", "", "country of TO, when ambiguous")
	return cmd
}

func (s *session) printDistance(a, b citybook.Match) {
	fmt.Fprintf(s.out, "Distance from %s to %s: %.2f km\n",
		a.City.Identity(), b.City.Identity(), s.reg.Distance(a, b))
}

func newNearestCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest LAT LON",
		Short: "Find the registered city closest to a coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("latitude: %w", err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("longitude: %w", err)
			}
			return s.nearest(citybook.Coordinate{Latitude: lat, Longitude: lon})
		},
	}
}

func (s *session) nearest(coord citybook.Coordinate) error {
	if !coord.Valid() {
		return fmt.Errorf("%w: coordinate (%g, %g) out of range", citybook.ErrInvalidValue, coord.Latitude, coord.Longitude)
	}
	m, km, ok := s.reg.Nearest(coord)
	if !ok {
		return citybook.ErrNotFound
	}
	fmt.Fprintf(s.out, "Nearest city: %s, %.2f km away\n", m.City.Identity(), km)
	return nil
}

// resolve finds exactly one city for a non-interactive command. Ambiguity
// is reported back to the user with the countries to choose from.
func (s *session) resolve(name, country string) (citybook.Match, error) {
	m, err := s.reg.Resolve(name, country)
	var amb *citybook.AmbiguousError
	if errors.As(err, &amb) {
		return citybook.Match{}, fmt.Errorf("%w; pick one with --country (%s)", err, strings.Join(amb.Countries(), ", "))
	}
	return m, err
}
