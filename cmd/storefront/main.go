// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command storefront is a terminal client for the Fruvia shop.
//
// Session tokens, the cart, and preferences persist in a JSON state file
// under the user configuration directory, so the cart survives restarts and
// works before signing in. All writes go through the storefront key-value
// store; the backend is consulted best effort.
//
// Usage:
//
//	storefront products [-q query] [-category name] [-page n]
//	storefront product <id>
//	storefront cart [add <product-id> [qty] | set <product-id> <qty> |
//	                 rm <product-id> | clear | pull]
//	storefront checkout <shipping address>
//	storefront login <email> | register | logout | whoami
//	storefront tips [category]
//	storefront feedback <title> <message> [rating]
//	storefront contact
//
// The backend base URL comes from FRUVIA_API_URL and defaults to
// http://localhost:8080/api/v1.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/fruvia/internal/storefront/api"
	"github.com/taibuivan/fruvia/internal/storefront/cart"
	"github.com/taibuivan/fruvia/internal/storefront/kvstore"
	"github.com/taibuivan/fruvia/internal/storefront/session"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logLevel := slog.LevelWarn
	if os.Getenv("FRUVIA_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	app, err := newApp(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

// app bundles the wired storefront components behind the subcommands.
type app struct {
	client  *api.Client
	session *session.Manager
	cart    *cart.Manager
	out     *bufio.Writer
	in      *bufio.Reader
}

// newApp wires state store, session, backend client and cart.
//
// The session manager doubles as the client's credential source, and the
// client only exists after the manager, so the two are bound in two steps.
func newApp(logger *slog.Logger) (*app, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	store, err := kvstore.Open(filepath.Join(configDir, "fruvia", "state.json"))
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	baseURL := os.Getenv("FRUVIA_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	sessionManager := session.NewManager(store, logger)
	client := api.NewClient(baseURL, sessionManager, func() {
		fmt.Fprintln(os.Stderr, "Your session has expired. Please sign in again.")
	}, logger)
	sessionManager.Bind(client)

	cartManager := cart.NewManager(store, &remoteCart{client: client}, sessionManager, logger)
	sessionManager.OnWipe(cartManager.Invalidate)

	return &app{
		client:  client,
		session: sessionManager,
		cart:    cartManager,
		out:     bufio.NewWriter(os.Stdout),
		in:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	defer a.out.Flush()

	switch command {
	case "products":
		return a.listProducts(ctx, args)
	case "product":
		return a.showProduct(ctx, args)
	case "cart":
		return a.cartCommand(ctx, args)
	case "checkout":
		return a.checkout(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami()
	case "tips":
		return a.listTips(ctx, args)
	case "feedback":
		return a.submitFeedback(ctx, args)
	case "contact":
		return a.showContact(ctx)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// # Catalogue

func (a *app) listProducts(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("products", flag.ContinueOnError)
	query := flags.String("q", "", "search term")
	category := flags.String("category", "", "category filter")
	page := flags.Int("page", 1, "page number")
	if err := flags.Parse(args); err != nil {
		return err
	}

	products, meta, err := a.client.ListProducts(ctx, api.ProductQuery{
		Search:   *query,
		Category: *category,
		Page:     *page,
		Limit:    20,
	})
	if err != nil {
		return err
	}

	for _, product := range products {
		marker := " "
		if product.StockQuantity == 0 {
			marker = "×"
		}
		fmt.Fprintf(a.out, "%s %-36s  %-30s  %8.2f  (stock %d)\n",
			marker, product.ID, product.Name, product.Price, product.StockQuantity)
	}
	if meta != nil {
		fmt.Fprintf(a.out, "page %d/%d, %d products\n", meta.Page, meta.TotalPages, meta.Total)
	}
	return nil
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront product <id>")
	}

	product, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", product.Name)
	fmt.Fprintf(a.out, "  price:    %.2f\n", product.Price)
	fmt.Fprintf(a.out, "  category: %s\n", product.Category)
	fmt.Fprintf(a.out, "  stock:    %d\n", product.StockQuantity)
	if product.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", product.Description)
	}
	return nil
}

// # Cart

func (a *app) cartCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.printCart()
	}

	switch args[0] {
	case "add":
		return a.cartAdd(ctx, args[1:])
	case "set":
		return a.cartSet(ctx, args[1:])
	case "rm":
		return a.cartRemove(ctx, args[1:])
	case "clear":
		a.report(a.cart.Clear(ctx))
		return a.printCart()
	case "pull":
		if !a.session.IsAuthenticated() {
			return errors.New("sign in first to pull the remote cart")
		}
		if err := a.cart.LoadRemote(ctx); err != nil {
			return err
		}
		return a.printCart()
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) cartAdd(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: storefront cart add <product-id> [qty]")
	}

	quantity := 1
	if len(args) == 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		quantity = parsed
	}

	product, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	if product.StockQuantity == 0 {
		return fmt.Errorf("%s is out of stock", product.Name)
	}

	_, status := a.cart.AddItem(ctx, cart.LineItem{
		ProductID:     product.ID,
		Title:         product.Name,
		UnitPrice:     product.Price,
		ImageRef:      product.ImageURL,
		StockQuantity: product.StockQuantity,
	}, quantity)
	a.report(status)
	return a.printCart()
}

func (a *app) cartSet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: storefront cart set <product-id> <qty>")
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	stock := a.stockFor(ctx, args[0])
	_, status, err := a.cart.UpdateItem(ctx, args[0], quantity, stock)
	if err != nil {
		var stockErr *cart.StockError
		if errors.As(err, &stockErr) {
			return errors.New(stockErr.Message)
		}
		return err
	}
	a.report(status)
	return a.printCart()
}

func (a *app) cartRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront cart rm <product-id>")
	}
	_, status := a.cart.RemoveItem(ctx, args[0])
	a.report(status)
	return a.printCart()
}

// stockFor refreshes the stock ceiling from the catalogue, falling back to
// the snapshot stored on the cart line when the backend is unreachable.
func (a *app) stockFor(ctx context.Context, productID string) int {
	if product, err := a.client.GetProduct(ctx, productID); err == nil {
		return product.StockQuantity
	}
	for _, item := range a.cart.Items() {
		if item.ProductID == productID {
			return item.StockQuantity
		}
	}
	return 0
}

func (a *app) printCart() error {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(a.out, "%3d × %-30s  %8.2f  = %8.2f\n",
			item.Quantity, item.Title, item.UnitPrice,
			item.UnitPrice*float64(item.Quantity))
	}
	fmt.Fprintf(a.out, "%d items, total %.2f\n", a.cart.ItemCount(), a.cart.Total())
	return nil
}

// report surfaces degraded outcomes of a cart mutation; a clean result
// prints nothing.
func (a *app) report(status cart.Status) {
	if !status.Persisted {
		fmt.Fprintln(os.Stderr, "warning: cart saved in memory only")
	}
	if status.Sync == cart.SyncFailed {
		fmt.Fprintln(os.Stderr, "warning: cart not synced to your account yet")
	}
	if status.ConflictDetected {
		fmt.Fprintln(os.Stderr, "warning: the cart was changed by another session")
	}
}

func (a *app) checkout(ctx context.Context, args []string) error {
	if !a.session.IsAuthenticated() {
		return errors.New("sign in before checking out")
	}
	if len(args) == 0 {
		return errors.New("usage: storefront checkout <shipping address>")
	}
	if a.cart.ItemCount() == 0 {
		return errors.New("your cart is empty")
	}

	placed, err := a.cart.Checkout(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Order %s placed, total %.2f. Thank you!\n", placed.ID, placed.Total)
	return nil
}

// # Session

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront login <email>")
	}

	password, err := a.prompt("Password: ")
	if err != nil {
		return err
	}

	identity, err := a.session.Login(ctx, args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", identity.Name, identity.Email)

	// A cart built while signed out follows the customer into the account.
	if a.cart.PushRemote(ctx) == cart.SyncFailed {
		fmt.Fprintln(os.Stderr, "warning: cart not synced to your account yet")
	}
	return nil
}

func (a *app) register(ctx context.Context) error {
	name, err := a.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := a.prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := a.prompt("Password: ")
	if err != nil {
		return err
	}

	identity, err := a.session.Register(ctx, api.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	if notice := a.session.Notice(); notice != "" {
		fmt.Fprintln(a.out, notice)
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", identity.Name, identity.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) whoami() error {
	identity := a.session.User()
	if identity == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s\n", identity.Name, identity.Email, identity.Role)
	return nil
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// # Content & Feedback

func (a *app) listTips(ctx context.Context, args []string) error {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}

	tips, err := a.client.ListHealthTips(ctx, category)
	if err != nil {
		return err
	}

	for _, tip := range tips {
		fmt.Fprintf(a.out, "[%s] %s\n", tip.Category, tip.Title)
	}
	return nil
}

func (a *app) submitFeedback(ctx context.Context, args []string) error {
	if !a.session.IsAuthenticated() {
		return errors.New("sign in before sending feedback")
	}
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: storefront feedback <title> <message> [rating]")
	}

	var rating *int
	if len(args) == 3 {
		parsed, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid rating %q", args[2])
		}
		rating = &parsed
	}

	submitted, err := a.client.SubmitFeedback(ctx, args[0], args[1], rating)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Thank you! Feedback received (%s).\n", submitted.ID)
	return nil
}

func (a *app) showContact(ctx context.Context) error {
	info, err := a.client.GetContact(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Phone:    %s\n", info.Phone)
	fmt.Fprintf(a.out, "Email:    %s\n", info.Email)
	fmt.Fprintf(a.out, "Location: %s\n", info.Location)
	for network, link := range info.SocialLinks {
		fmt.Fprintf(a.out, "%-9s %s\n", network+":", link)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Fruvia storefront

  storefront products [-q query] [-category name] [-page n]
  storefront product <id>
  storefront cart [add|set|rm|clear|pull] ...
  storefront checkout <shipping address>
  storefront login <email> | register | logout | whoami
  storefront tips [category]
  storefront feedback <title> <message> [rating]
  storefront contact`)
}

// remoteCart adapts the backend client to the cart manager's remote
// interface.
type remoteCart struct {
	client *api.Client
}

func (r *remoteCart) AddItem(ctx context.Context, productID string, quantity int) error {
	return r.client.AddCartItem(ctx, productID, quantity)
}

func (r *remoteCart) SetQuantity(ctx context.Context, productID string, quantity int) error {
	return r.client.UpdateCartItem(ctx, productID, quantity)
}

func (r *remoteCart) RemoveItem(ctx context.Context, productID string) error {
	return r.client.RemoveCartItem(ctx, productID)
}

func (r *remoteCart) Fetch(ctx context.Context) ([]cart.LineItem, error) {
	snapshot, err := r.client.GetCart(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]cart.LineItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		items = append(items, cart.LineItem{
			ProductID: line.ProductID,
			Title:     line.ProductName,
			UnitPrice: line.UnitPrice,
			ImageRef:  line.ImageURL,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

func (r *remoteCart) Checkout(ctx context.Context, shippingAddress string) (*cart.PlacedOrder, error) {
	placed, err := r.client.Checkout(ctx, shippingAddress)
	if err != nil {
		return nil, err
	}
	return &cart.PlacedOrder{ID: placed.ID, Total: placed.TotalAmount}, nil
}
