package chains

import "fmt"

// ExplorerTxURL returns the block explorer page for a transaction reported
// by Crossmint. chainName is Crossmint's chain name, which carries the
// testnet suffix in staging. It returns "" for chains without an explorer.
func ExplorerTxURL(env, chainName, txID string) string {
	staging := env == "staging"

	switch chainName {
	case "base-sepolia":
		return fmt.Sprintf("https://sepolia.basescan.org/tx/%s", txID)
	case "base":
		return fmt.Sprintf("https://basescan.org/tx/%s", txID)
	case "optimism-sepolia":
		return fmt.Sprintf("https://sepolia-optimism.etherscan.io/tx/%s", txID)
	case "optimism":
		return fmt.Sprintf("https://optimistic.etherscan.io/tx/%s", txID)
	case "polygon-amoy":
		return fmt.Sprintf("https://amoy.polygonscan.com/tx/%s", txID)
	case "polygon":
		if staging {
			return fmt.Sprintf("https://mumbai.polygonscan.com/tx/%s", txID)
		}
		return fmt.Sprintf("https://polygonscan.com/tx/%s", txID)
	case "solana":
		if staging {
			return fmt.Sprintf("https://xray.helius.xyz/tx/%s?network=devnet", txID)
		}
		return fmt.Sprintf("https://xray.helius.xyz/tx/%s?network=mainnet", txID)
	}
	return ""
}
