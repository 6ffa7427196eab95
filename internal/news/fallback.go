package news

import (
	"time"

	"cryptocast/internal/app/model"
)

// Fallback returns the fixed article set served when the live feed fails.
// A fresh slice is built on every call.
func Fallback() []model.NewsArticle {
	return []model.NewsArticle{
		{
			ID:          "1",
			Title:       "Bitcoin Surges Past $65,000 as Institutional Interest Grows",
			Source:      "CryptoNews",
			Content:     "Bitcoin has surged past $65,000 as institutional investors continue to show interest in the cryptocurrency. Major financial institutions are increasingly adding Bitcoin to their portfolios, signaling growing acceptance of digital assets in traditional finance.",
			Summary:     "Bitcoin breaks $65K milestone as institutional adoption accelerates with major financial players entering the market.",
			URL:         "https://example.com/bitcoin-surge",
			ImageURL:    "https://images.unsplash.com/photo-1518546305927-5a555bb7020d?auto=format&fit=crop&w=1000&q=80",
			PublishedAt: time.Date(2023, 4, 15, 14, 30, 0, 0, time.UTC),
			Sentiment:   model.SentimentPositive,
		},
		{
			ID:          "2",
			Title:       "Ethereum Completes Major Network Upgrade to Reduce Energy Consumption",
			Source:      "BlockchainDaily",
			Content:     "Ethereum has successfully completed a major network upgrade aimed at reducing energy consumption by over 99%. The upgrade, which has been in development for years, transitions the network from a proof-of-work to a proof-of-stake consensus mechanism.",
			Summary:     "Ethereum's new upgrade cuts energy use by 99%, switching from proof-of-work to proof-of-stake in a long-awaited move.",
			URL:         "https://example.com/ethereum-upgrade",
			ImageURL:    "https://images.unsplash.com/photo-1622630998477-20aa696ecb05?auto=format&fit=crop&w=1024&q=80",
			PublishedAt: time.Date(2023, 4, 14, 9, 15, 0, 0, time.UTC),
			Sentiment:   model.SentimentPositive,
		},
		{
			ID:          "3",
			Title:       "Regulatory Concerns Grow as Countries Consider Crypto Restrictions",
			Source:      "CoinDesk",
			Content:     "Several countries have announced plans to implement stricter regulations on cryptocurrency trading and mining. The move comes amid concerns about energy consumption, potential use in illicit activities, and financial stability risks.",
			Summary:     "Multiple nations announce plans for stricter crypto regulations, citing environmental impact and financial stability concerns.",
			URL:         "https://example.com/crypto-regulations",
			ImageURL:    "https://images.unsplash.com/photo-1605792657660-596af9009e82?auto=format&fit=crop&w=1024&q=80",
			PublishedAt: time.Date(2023, 4, 13, 16, 45, 0, 0, time.UTC),
			Sentiment:   model.SentimentNegative,
		},
		{
			ID:          "4",
			Title:       "New DeFi Protocol Raises $50 Million in Funding Round",
			Source:      "DeFi Today",
			Content:     "A new decentralized finance protocol has raised $50 million in a funding round led by prominent venture capital firms. The protocol aims to provide innovative financial services on the blockchain, including lending, borrowing, and asset management.",
			Summary:     "New DeFi platform secures $50M from top VCs to develop blockchain-based financial services.",
			URL:         "https://example.com/defi-funding",
			ImageURL:    "https://images.unsplash.com/photo-1639762681057-408e52192e55?auto=format&fit=crop&w=1024&q=80",
			PublishedAt: time.Date(2023, 4, 12, 11, 20, 0, 0, time.UTC),
			Sentiment:   model.SentimentPositive,
		},
		{
			ID:          "5",
			Title:       "NFT Market Shows Signs of Recovery After Months of Decline",
			Source:      "ArtCrypto",
			Content:     "The non-fungible token (NFT) market is showing signs of recovery after months of declining sales and prices. Recent high-profile sales and new project launches have reignited interest in digital collectibles, though volumes remain below peak levels.",
			Summary:     "NFT market rebounds with high-profile sales and new projects, though still below previous peak trading volumes.",
			URL:         "https://example.com/nft-recovery",
			ImageURL:    "https://images.unsplash.com/photo-1620321023374-d1a68fbc720d?auto=format&fit=crop&w=1024&q=80",
			PublishedAt: time.Date(2023, 4, 11, 13, 40, 0, 0, time.UTC),
			Sentiment:   model.SentimentNeutral,
		},
		{
			ID:          "6",
			Title:       "Major Bank Launches Cryptocurrency Custody Service for Institutional Clients",
			Source:      "FinancialTimes",
			Content:     "A major international bank has launched a cryptocurrency custody service for its institutional clients. The service will initially support Bitcoin and Ethereum, with plans to expand to other digital assets in the future.",
			Summary:     "Global bank introduces crypto custody for institutions, starting with Bitcoin and Ethereum with more assets planned.",
			URL:         "https://example.com/bank-custody",
			ImageURL:    "https://images.unsplash.com/photo-1638913662380-9799def8ffb1?auto=format&fit=crop&w=1024&q=80",
			PublishedAt: time.Date(2023, 4, 10, 8, 50, 0, 0, time.UTC),
			Sentiment:   model.SentimentPositive,
		},
	}
}
