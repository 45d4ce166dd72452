package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sistema-laudos/laudos-go/internal/models"
)

var (
	geoSearchType   string
	geoSearchLat    float64
	geoSearchLon    float64
	geoSearchRadius float64

	geoAddAddress  string
	geoAddLat      float64
	geoAddLon      float64
	geoAddType     string
	geoAddContrato string
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Geolocation data and calculations",
	Long: `Inspect and manage the geolocation data extracted from contracts.

Examples:
  laudos geo list 42
  laudos geo search --type origem --lat -23.55 --lon -46.63 --radius 5
  laudos geo geocode "Av. Paulista, 1000, São Paulo"
  laudos geo reverse -23.5505 -46.6333
  laudos geo distance -23.5505 -46.6333 -22.9068 -43.1729`,
}

var geoListCmd = &cobra.Command{
	Use:   "list <contrato-id>",
	Short: "List the locations tied to a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeoList,
}

var geoSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search locations by type or proximity",
	RunE:  runGeoSearch,
}

var geoAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a location",
	RunE:  runGeoAdd,
}

var geoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a location",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeoDelete,
}

var geoGeocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve an address to coordinates",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeoGeocode,
}

var geoReverseCmd = &cobra.Command{
	Use:   "reverse <latitude> <longitude>",
	Short: "Resolve coordinates to an address",
	Args:  cobra.ExactArgs(2),
	RunE:  runGeoReverse,
}

var geoDistanceCmd = &cobra.Command{
	Use:   "distance <lat1> <lon1> <lat2> <lon2>",
	Short: "Compute the distance between two points",
	Args:  cobra.ExactArgs(4),
	RunE:  runGeoDistance,
}

func init() {
	geoSearchCmd.Flags().StringVarP(&geoSearchType, "type", "t", "", "location type (origem, destino, parada)")
	geoSearchCmd.Flags().Float64Var(&geoSearchLat, "lat", 0, "center latitude")
	geoSearchCmd.Flags().Float64Var(&geoSearchLon, "lon", 0, "center longitude")
	geoSearchCmd.Flags().Float64Var(&geoSearchRadius, "radius", 0, "radius in km")

	geoAddCmd.Flags().StringVarP(&geoAddAddress, "address", "a", "", "full address")
	geoAddCmd.Flags().Float64Var(&geoAddLat, "lat", 0, "latitude")
	geoAddCmd.Flags().Float64Var(&geoAddLon, "lon", 0, "longitude")
	geoAddCmd.Flags().StringVarP(&geoAddType, "type", "t", models.LocationOrigem, "location type")
	geoAddCmd.Flags().StringVar(&geoAddContrato, "contrato", "", "contract id to attach the location to")
	geoAddCmd.MarkFlagRequired("address")

	geoCmd.AddCommand(geoListCmd)
	geoCmd.AddCommand(geoSearchCmd)
	geoCmd.AddCommand(geoAddCmd)
	geoCmd.AddCommand(geoDeleteCmd)
	geoCmd.AddCommand(geoGeocodeCmd)
	geoCmd.AddCommand(geoReverseCmd)
	geoCmd.AddCommand(geoDistanceCmd)
}

func runGeoList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	locations, err := apiClient.LocationsByContrato(ctx, args[0])
	if err != nil {
		return err
	}

	printLocations(locations)
	return nil
}

func runGeoSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	search := models.LocationSearch{Type: geoSearchType}
	if cmd.Flags().Changed("lat") {
		search.Latitude = &geoSearchLat
	}
	if cmd.Flags().Changed("lon") {
		search.Longitude = &geoSearchLon
	}
	if cmd.Flags().Changed("radius") {
		search.RadiusKm = &geoSearchRadius
	}

	locations, err := apiClient.SearchLocations(ctx, search)
	if err != nil {
		return err
	}

	printLocations(locations)
	return nil
}

func runGeoAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	created, err := apiClient.CreateLocation(ctx, models.Location{
		ContratoID: geoAddContrato,
		Address:    geoAddAddress,
		Latitude:   geoAddLat,
		Longitude:  geoAddLon,
		Type:       geoAddType,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created location %s.\n", created.ID)
	return nil
}

func runGeoDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := apiClient.DeleteLocation(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted location %s.\n", args[0])
	return nil
}

func runGeoGeocode(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := apiClient.Geocode(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n  %.6f, %.6f\n", result.Address, result.Latitude, result.Longitude)
	if result.Precision != "" {
		fmt.Printf("  Precisão: %s\n", result.Precision)
	}
	return nil
}

func runGeoReverse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	lat, err := parseCoordinate(args[0], "latitude")
	if err != nil {
		return err
	}
	lon, err := parseCoordinate(args[1], "longitude")
	if err != nil {
		return err
	}

	result, err := apiClient.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return err
	}

	fmt.Printf("%.6f, %.6f\n  %s\n", lat, lon, result.Address)
	return nil
}

func runGeoDistance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	coords := make([]float64, 4)
	names := []string{"lat1", "lon1", "lat2", "lon2"}
	for i, arg := range args {
		v, err := parseCoordinate(arg, names[i])
		if err != nil {
			return err
		}
		coords[i] = v
	}

	result, err := apiClient.Distance(ctx,
		models.Point{Latitude: coords[0], Longitude: coords[1]},
		models.Point{Latitude: coords[2], Longitude: coords[3]})
	if err != nil {
		return err
	}

	fmt.Printf("%.2f km (%.0f m)\n", result.DistanceKm, result.DistanceMeters)
	return nil
}

func parseCoordinate(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

func printLocations(locations []models.Location) {
	if len(locations) == 0 {
		fmt.Println("No locations found.")
		return
	}

	fmt.Printf("Locations (%d):\n\n", len(locations))
	for _, l := range locations {
		fmt.Printf("- %s [%s] %s (%.6f, %.6f)\n", l.ID, l.Type, l.Address, l.Latitude, l.Longitude)
	}
}
