package contract

// Hand-maintained ABI for the CardNFT contract: the ERC-721 enumerable
// surface plus the card extension (getCard/estadoOf/mintCard/updateEstado)
// and the AccessControl role surface.
const CardNftABI = `[
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenByIndex","stateMutability":"view","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getCard","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"owner","type":"address"},{"name":"juego","type":"string"},{"name":"expansion","type":"string"},{"name":"numero","type":"uint256"},{"name":"rareza","type":"string"},{"name":"estado","type":"uint8"},{"name":"updatedAt","type":"uint64"}]},
  {"type":"function","name":"estadoOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"mintCard","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"juego","type":"string"},{"name":"expansion","type":"string"},{"name":"numero","type":"uint256"},{"name":"rareza","type":"string"},{"name":"estadoInicial","type":"uint8"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"updateEstado","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"nuevoEstado","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"adminUpdateEstado","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"nuevoEstado","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getApproved","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
  {"type":"function","name":"isApprovedForAll","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"grantRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
  {"type":"function","name":"revokeRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]}
]`

// Hand-maintained ABI for the native-currency market contract.
const MarketABI = `[
  {"type":"function","name":"listings","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"seller","type":"address"},{"name":"price","type":"uint256"}]},
  {"type":"function","name":"pendingListings","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"seller","type":"address"},{"name":"price","type":"uint256"},{"name":"requestedAt","type":"uint64"}]},
  {"type":"function","name":"list","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"cancel","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"finalizeListing","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"buy","stateMutability":"payable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"offerSwap","stateMutability":"nonpayable","inputs":[{"name":"offeredTokenId","type":"uint256"},{"name":"wantedTokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"cancelSwap","stateMutability":"nonpayable","inputs":[{"name":"offeredTokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"acceptSwap","stateMutability":"nonpayable","inputs":[{"name":"offeredTokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"swapOffers","stateMutability":"view","inputs":[{"name":"offeredTokenId","type":"uint256"}],"outputs":[{"name":"maker","type":"address"},{"name":"offeredTokenId","type":"uint256"},{"name":"wantedTokenId","type":"uint256"},{"name":"active","type":"bool"}]},
  {"type":"event","name":"Listed","inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"seller","type":"address","indexed":true},{"name":"price","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"Cancelled","inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"seller","type":"address","indexed":true}],"anonymous":false},
  {"type":"event","name":"Bought","inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"buyer","type":"address","indexed":true},{"name":"seller","type":"address","indexed":true},{"name":"price","type":"uint256","indexed":false}],"anonymous":false},
  {"type":"event","name":"SwapOffered","inputs":[{"name":"maker","type":"address","indexed":true},{"name":"offeredTokenId","type":"uint256","indexed":true},{"name":"wantedTokenId","type":"uint256","indexed":true}],"anonymous":false},
  {"type":"event","name":"SwapCancelled","inputs":[{"name":"maker","type":"address","indexed":true},{"name":"offeredTokenId","type":"uint256","indexed":true}],"anonymous":false},
  {"type":"event","name":"SwapAccepted","inputs":[{"name":"taker","type":"address","indexed":true},{"name":"maker","type":"address","indexed":true},{"name":"offeredTokenId","type":"uint256","indexed":true},{"name":"wantedTokenId","type":"uint256","indexed":false}],"anonymous":false}
]`
