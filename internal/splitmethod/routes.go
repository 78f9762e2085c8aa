package splitmethod

// Route names of the payment split method pages.
const (
	RouteCollection = "entity.uc_payment_split_method.collection"
	RouteAddForm    = "entity.uc_payment_split_method.add_form"
	RouteEditForm   = "entity.uc_payment_split_method.edit_form"
	RouteDeleteForm = "entity.uc_payment_split_method.delete_form"
	RouteEnable     = "entity.uc_payment_split_method.enable"
	RouteDisable    = "entity.uc_payment_split_method.disable"
	RoutePlugins    = "plugin.list"

	// ParamID carries the method ID in entity routes.
	ParamID = "id"
	// ParamPluginID carries the plugin ID in the add route.
	ParamPluginID = "plugin_id"
)
