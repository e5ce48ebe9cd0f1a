package normalize

// Shipment export fields.
const (
	FieldSecondaryCode Field = "secondary_code"
	FieldSKU           Field = "sku"
	FieldQuantity      Field = "quantity"
	FieldUnitPrice     Field = "unit_price"
)

// Order export fields.
const (
	FieldOrderID        Field = "order_id"
	FieldPackID         Field = "pack_id"
	FieldOrderDate      Field = "order_date"
	FieldStatus         Field = "status"
	FieldCancelReason   Field = "cancel_reason"
	FieldChannel        Field = "channel"
	FieldShippingMethod Field = "shipping_method"
	FieldBuyer          Field = "buyer"
	FieldListingID      Field = "listing_id"
	FieldTitle          Field = "title"
)

// ShipmentSpec is the accepted header layout of fulfillment shipment exports.
var ShipmentSpec = Spec{Fields: []FieldSpec{
	{Field: FieldSecondaryCode, Aliases: []string{"Código ML", "Código", "Cód.", "Código universal", "Código do anúncio", "MLB", "EAN", "Secondary code"}},
	{Field: FieldSKU, Aliases: []string{"SKU", "SKU do produto", "Código SKU", "Referência", "Ref.", "Produto"}, Required: true},
	{Field: FieldQuantity, Aliases: []string{"Quantidade", "Unidades", "Unidades enviadas", "Qtd.", "Qtde", "Quantity"}, Required: true},
	{Field: FieldUnitPrice, Aliases: []string{"Preço unitário", "Preço", "Valor unitário", "Unit price", "Price"}},
}}

// OrderSpec is the accepted header layout of marketplace order exports.
// One of order id or pack id must be present; Extract checks that.
var OrderSpec = Spec{Fields: []FieldSpec{
	{Field: FieldOrderID, Aliases: []string{"N.º de venda", "Nº de venda", "Número da venda", "ID da venda", "Venda", "Order ID"}},
	{Field: FieldPackID, Aliases: []string{"Pack ID", "ID do pacote", "N.º de pacote"}},
	{Field: FieldOrderDate, Aliases: []string{"Data da venda", "Data", "Order date", "Date"}},
	{Field: FieldStatus, Aliases: []string{"Estado", "Status"}},
	{Field: FieldCancelReason, Aliases: []string{"Motivo do cancelamento", "Motivo", "Cancellation reason"}},
	{Field: FieldChannel, Aliases: []string{"Canal de venda", "Canal", "Channel"}},
	{Field: FieldShippingMethod, Aliases: []string{"Forma de entrega", "Forma de envio", "Tipo de envio", "Shipping method"}},
	{Field: FieldBuyer, Aliases: []string{"Comprador", "Buyer"}},
	{Field: FieldSKU, Aliases: []string{"SKU"}, Required: true},
	{Field: FieldListingID, Aliases: []string{"# de anúncio", "Anúncio", "ID do anúncio", "MLB", "Listing ID"}},
	{Field: FieldTitle, Aliases: []string{"Título do anúncio", "Título", "Title"}},
	{Field: FieldQuantity, Aliases: []string{"Unidades", "Quantidade", "Qtd.", "Quantity"}, Required: true},
	{Field: FieldUnitPrice, Aliases: []string{"Preço unitário de venda do anúncio (BRL)", "Preço unitário", "Preço", "Unit price"}},
}}
