package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/routes"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/internal/server"
	"github.com/keysncaps/keysncaps/pkg/router"
	"github.com/keysncaps/keysncaps/pkg/ws"
)

// keysncaps serve — start the HTTP server. Exits non-zero when the initial
// database connection fails.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// keysncaps route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, err := bootDB()
		if err != nil {
			return err
		}
		defer cancel(ctx)

		userRepo := repositories.NewUserRepository()
		orderRepo := repositories.NewOrderRepository()
		productRepo := repositories.NewProductRepository()

		r := router.New()
		routes.RegisterAPI(r, routes.Deps{
			Users:    userRepo,
			Orders:   orderRepo,
			Auth:     services.NewAuthService(userRepo),
			Products: services.NewProductService(productRepo),
			Payments: services.NewPaymentService(services.NewStripeGateway()),
			OrderSvc: services.NewOrderService(orderRepo),
			Hub:      ws.NewHub(),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
