package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-ledger/internal/ledger"
	"github.com/vovakirdan/flappy-ledger/internal/storage"
)

var (
	flagWalletPath    string
	flagConnectRemote string
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Create or show your wallet identity",
	Long: `Connect the local wallet. The first run creates a key at
~/.flappy/wallet.key; its address is the player name on every ledger.

With --remote the wallet is also introduced to a remote ledger.

Examples:
  flappy connect
  flappy connect --remote http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&flagWalletPath, "wallet", "", "Path to the wallet key (default ~/.flappy/wallet.key)")
	connectCmd.Flags().StringVar(&flagConnectRemote, "remote", "", "Initialize the wallet on a remote ledger at this URL")
}

func runConnect(_ *cobra.Command, _ []string) error {
	path := flagWalletPath
	if path == "" {
		var err error
		if path, err = ledger.DefaultWalletPath(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wallet := ledger.NewLocalWallet(path)
	id, err := wallet.Connect(ctx)
	if err != nil {
		return err
	}
	defer wallet.Disconnect(ctx)

	fmt.Printf("Wallet:  %s\n", path)
	fmt.Printf("Address: %s\n", id.Address)

	store, err := storage.Open(flagDBPath)
	if err == nil {
		defer store.Close()
		if err := store.RegisterWallet(ctx, id.Address); err != nil {
			return err
		}
		if first, ok, err := store.WalletFirstSeen(ctx, id.Address); err == nil && ok {
			fmt.Printf("Since:   %s\n", first.Local().Format("2006-01-02 15:04"))
		}
		if best, err := store.PlayerBest(ctx, id.Address); err == nil && best > 0 {
			fmt.Printf("Best:    %d\n", best)
		}
	}

	if flagConnectRemote != "" {
		if err := ledger.NewClient(flagConnectRemote).Initialize(ctx, id); err != nil {
			return fmt.Errorf("initializing on %s: %w", flagConnectRemote, err)
		}
		fmt.Printf("Remote:  initialized on %s\n", flagConnectRemote)
	}
	return nil
}
