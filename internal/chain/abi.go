package chain

// crowdfundingABI covers the read surface of the deployed crowdfunding
// contract. Write paths (createCampaign, contributeToCampaign,
// withdrawCampaignFunds, getRefund, admin ops) are exercised by wallets
// directly and are intentionally absent here.
const crowdfundingABI = `[
  {
    "name": "getCampaign",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{"name": "campaignId", "type": "uint256"}],
    "outputs": [
      {
        "name": "campaign",
        "type": "tuple",
        "components": [
          {"name": "id", "type": "uint256"},
          {"name": "creator", "type": "address"},
          {"name": "title", "type": "string"},
          {"name": "description", "type": "string"},
          {"name": "metadataHash", "type": "string"},
          {"name": "targetAmount", "type": "uint256"},
          {"name": "raisedAmount", "type": "uint256"},
          {"name": "deadline", "type": "uint256"},
          {"name": "withdrawn", "type": "bool"},
          {"name": "active", "type": "bool"},
          {"name": "createdAt", "type": "uint256"},
          {"name": "contributorsCount", "type": "uint256"}
        ]
      }
    ]
  },
  {
    "name": "getContribution",
    "type": "function",
    "stateMutability": "view",
    "inputs": [
      {"name": "campaignId", "type": "uint256"},
      {"name": "contributor", "type": "address"}
    ],
    "outputs": [{"name": "amount", "type": "uint256"}]
  },
  {
    "name": "getUserCampaigns",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{"name": "user", "type": "address"}],
    "outputs": [{"name": "campaignIds", "type": "uint256[]"}]
  },
  {
    "name": "getUserContributions",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{"name": "user", "type": "address"}],
    "outputs": [{"name": "campaignIds", "type": "uint256[]"}]
  },
  {
    "name": "getActiveCampaigns",
    "type": "function",
    "stateMutability": "view",
    "inputs": [
      {"name": "offset", "type": "uint256"},
      {"name": "limit", "type": "uint256"}
    ],
    "outputs": [{"name": "campaignIds", "type": "uint256[]"}]
  },
  {
    "name": "getCampaignContributions",
    "type": "function",
    "stateMutability": "view",
    "inputs": [{"name": "campaignId", "type": "uint256"}],
    "outputs": [
      {
        "name": "contributions",
        "type": "tuple[]",
        "components": [
          {"name": "contributor", "type": "address"},
          {"name": "amount", "type": "uint256"},
          {"name": "timestamp", "type": "uint256"}
        ]
      }
    ]
  },
  {
    "name": "getContractStats",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [
      {"name": "totalCampaigns", "type": "uint256"},
      {"name": "totalFees", "type": "uint256"},
      {"name": "contractBalance", "type": "uint256"}
    ]
  },
  {
    "name": "paused",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "bool"}]
  },
  {
    "name": "owner",
    "type": "function",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "address"}]
  }
]`
